package schema

import (
	"regdraft/internal/log"
)

// Pages partitions an ordered block sequence into wizard pages.
//
// Blocks are consumed in a single pass: a heading-role block starts a new
// page, a label-role block opens a new group on the current page, and
// input/option blocks attach to the open group. Blocks with no recognized
// role are carried on the open group so no block is ever dropped.
//
// Malformed sequences degrade gracefully rather than erroring: blocks that
// arrive before any heading collect on a leading headingless page, and an
// option or input before any label opens an anonymous group. Schema
// integrity is the registry's responsibility, not the partitioner's.
func Pages(blocks []Block, taxonomy Taxonomy) []*Page {
	var pages []*Page
	var page *Page
	var group *Group

	openPage := func() {
		if page == nil {
			page = &Page{}
			pages = append(pages, page)
		}
	}
	openGroup := func() {
		openPage()
		if group == nil {
			group = &Group{}
			page.Groups = append(page.Groups, group)
		}
	}

	for i := range blocks {
		block := blocks[i]
		switch taxonomy.RoleOf(block.Type) {
		case RoleHeading:
			page = &Page{Heading: &blocks[i]}
			pages = append(pages, page)
			group = nil

		case RoleLabel:
			openPage()
			group = &Group{Label: &blocks[i]}
			page.Groups = append(page.Groups, group)

		case RoleInput:
			openGroup()
			if group.Input != nil {
				// Two inputs never share a group; start a fresh
				// anonymous group for the second one.
				group = &Group{}
				page.Groups = append(page.Groups, group)
			}
			group.Input = &blocks[i]

		case RoleOption:
			openGroup()
			group.Options = append(group.Options, block)

		default:
			openGroup()
			group.Other = append(group.Other, block)
		}
	}

	log.Debug(log.CatSchema, "partitioned schema blocks", "blocks", len(blocks), "pages", len(pages))
	return pages
}
