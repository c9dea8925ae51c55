package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ludo-technologies/migscan/app"
	"github.com/ludo-technologies/migscan/domain"
	"github.com/ludo-technologies/migscan/internal/registry"
	"github.com/ludo-technologies/migscan/service"
)

type managerAction int

const (
	actionToggle managerAction = iota
	actionAdd
	actionReset
	actionDone
)

type managerItem struct {
	Label  string
	Detail string
	Action managerAction
	Ext    string
}

// managerItems turns the session entries into menu rows followed by the actions
func managerItems(entries []app.ExtensionEntry) []managerItem {
	items := make([]managerItem, 0, len(entries)+3)
	for _, e := range entries {
		box := "[ ]"
		if e.Blocked {
			box = "[x]"
		}
		detail := ""
		if !e.Present {
			detail = "not in this directory"
		}
		items = append(items, managerItem{
			Label:  box + " " + e.Extension,
			Detail: detail,
			Action: actionToggle,
			Ext:    e.Extension,
		})
	}
	return append(items,
		managerItem{Label: "Add extension...", Action: actionAdd},
		managerItem{Label: "Reset to defaults", Action: actionReset},
		managerItem{Label: "Done", Action: actionDone},
	)
}

// runExtensionManager lets the user toggle blocked extensions and prints
// the filtered report once they are done. No rescan happens.
func runExtensionManager(cmd *cobra.Command, session *app.ExtensionSession, formatter *service.OutputFormatterImpl) (*domain.ScanResponse, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} {{ .Detail | faint }}",
		Inactive: "   {{ .Label }} {{ .Detail | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	cursor := 0
	for {
		view, err := session.View()
		if err != nil {
			return nil, err
		}

		items := managerItems(session.Entries())
		prompt := promptui.Select{
			Label: fmt.Sprintf("Blocked extensions (%d blocked files, score %.1f%%)",
				view.IssueCount, view.ComplianceScore),
			Items:     items,
			Templates: templates,
			Size:      15,
			CursorPos: min(cursor, len(items)-1),
		}

		idx, _, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				break
			}
			return nil, fmt.Errorf("extension manager cancelled: %w", err)
		}
		cursor = idx

		switch items[idx].Action {
		case actionToggle:
			_, _, err = session.Toggle(items[idx].Ext)
		case actionAdd:
			err = promptAddExtension(session)
		case actionReset:
			_, err = session.Reset()
		case actionDone:
			return writeFilteredView(cmd, session, formatter)
		}
		if err != nil {
			return nil, err
		}
	}

	return writeFilteredView(cmd, session, formatter)
}

func promptAddExtension(session *app.ExtensionSession) error {
	prompt := promptui.Prompt{
		Label: "Extension to block",
		Validate: func(input string) error {
			if registry.Normalize(input) == "" {
				return errors.New("extension must not be empty")
			}
			return nil
		},
	}

	ext, err := prompt.Run()
	if err != nil {
		// Abandoning the prompt just returns to the list
		return nil
	}
	_, err = session.Add(ext)
	return err
}

func writeFilteredView(cmd *cobra.Command, session *app.ExtensionSession, formatter *service.OutputFormatterImpl) (*domain.ScanResponse, error) {
	view, err := session.View()
	if err != nil {
		return nil, err
	}
	if err := formatter.Write(view, domain.OutputFormatText, cmd.OutOrStdout()); err != nil {
		return nil, domain.NewOutputError("failed to write report", err)
	}
	return view, nil
}
