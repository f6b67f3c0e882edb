package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/docusafe/docusafe/internal/session"
)

const helpText = `Commands:
  list              list all documents, newest first
  search            filter documents by text and/or category
  add               capture a new document
  show              show one document by id
  update            modify a document's fields
  delete            delete a document and its images
  settings          view or change preferences
  usage             show blob storage usage
  lock              lock the vault
  wipe              erase ALL data and start over
  help              this text
  exit | quit       leave`

// repl runs the unlocked command loop. It returns true when the user asked
// to exit, false when the session locked and the gate should take over.
func (a *App) repl(ctx context.Context) (bool, error) {
	fmt.Fprintln(a.out, `Type "help" for commands.`)

	for {
		if a.session.State() != session.StateUnlocked {
			return false, nil
		}

		line, err := GetSimpleText(a.reader, "", a.out)
		if err != nil {
			return true, nil
		}

		cmd := strings.ToLower(strings.TrimSpace(line))
		switch cmd {
		case "":
			continue
		case "help":
			fmt.Fprintln(a.out, helpText)
		case "list":
			a.cmdList(ctx)
		case "search":
			a.cmdSearch(ctx)
		case "add":
			a.cmdAdd(ctx)
		case "show":
			a.cmdShow(ctx)
		case "update":
			a.cmdUpdate(ctx)
		case "delete":
			a.cmdDelete(ctx)
		case "settings":
			a.cmdSettings(ctx)
		case "usage":
			a.cmdUsage(ctx)
		case "lock":
			a.session.Lock(ctx)
			return false, nil
		case "wipe":
			a.cmdWipe(ctx)
			if a.session.State() != session.StateUnlocked {
				return false, nil
			}
		case "exit", "quit":
			return true, nil
		default:
			fmt.Fprintf(a.out, "Unknown command %q. Type \"help\".\n", cmd)
		}
	}
}
