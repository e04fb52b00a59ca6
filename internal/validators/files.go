package validators

import (
	"context"
	"fmt"

	"regdraft/internal/log"
	"regdraft/internal/registration"
)

// FileCheck is an asynchronous predicate over a file-input response.
// It returns ok=true when every file is intact, otherwise ok=false with
// one human-readable problem string per deleted or detached file.
type FileCheck func(ctx context.Context, files []registration.File) (ok bool, problems []string)

// Files builds a file-list integrity check scoped to an owning node.
//
// Each file is reloaded through the reloader: a load failure classifies it
// as deleted, and a reloaded file whose node is neither the owner nor one
// of its registered descendants classifies it as detached. A nil owner
// skips the detachment check, since there is no node to be detached from.
func Files(reloader registration.FileReloader, nodes registration.NodeLister, owner *registration.Node) FileCheck {
	return func(ctx context.Context, files []registration.File) (bool, []string) {
		var problems []string

		allowed := map[string]bool{}
		if owner != nil {
			allowed[owner.ID] = true
			descendants, err := nodes.RegisteredDescendants(ctx, owner.ID)
			if err != nil {
				// Treat the whole check as inconclusive-but-failing;
				// the user can retry once the registry responds.
				log.ErrorErr(log.CatWizard, "listing registered descendants failed", err, "node", owner.ID)
				return false, []string{fmt.Sprintf("Could not verify files attached to %q.", owner.Title)}
			}
			for _, d := range descendants {
				allowed[d.ID] = true
			}
		}

		for _, f := range files {
			current, err := reloader.ReloadFile(ctx, f.ID)
			if err != nil {
				problems = append(problems, fmt.Sprintf("The file %q has been deleted and can no longer be registered.", f.Name))
				continue
			}
			if owner != nil && !allowed[current.NodeID] {
				problems = append(problems, fmt.Sprintf("The file %q is no longer attached to this project or its registered components.", current.Name))
			}
		}

		return len(problems) == 0, problems
	}
}
