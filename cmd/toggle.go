package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/lofi-cli/internal/adapters/client"
	"github.com/xvierd/lofi-cli/internal/domain"
)

// toggleCmd represents the toggle command
var toggleCmd = &cobra.Command{
	Use:   "toggle <item>",
	Short: "Mark a checklist item done or not done",
	Long: `Flip the completed flag of a checklist item. The item may be given by its
position in "lofi list", its ID, or a fuzzy match on its text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := newClient()

		item, err := resolveItem(ctx, c, strings.Join(args, " "))
		if err != nil {
			return err
		}
		snap, err := c.ToggleItem(ctx, item.ID)
		if err != nil {
			return remoteError("toggle item", err)
		}
		if app.ui.Structured() {
			return app.ui.Encode(snap.Checklist)
		}

		state := "not done"
		for _, it := range snap.Checklist.Items {
			if it.ID == item.ID && it.Completed {
				state = "done"
			}
		}
		app.ui.Success("%s: %s", item.Text, state)
		return nil
	},
}

// resolveItem finds the item a user refers to: a 1-based position in the
// list, an exact ID, or the best fuzzy match on the text.
func resolveItem(ctx context.Context, c *client.Client, ref string) (*domain.ChecklistItem, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrEmptyInput
	}

	if pos, err := strconv.Atoi(ref); err == nil {
		snap, err := c.Snapshot(ctx)
		if err != nil {
			return nil, remoteError("list items", err)
		}
		if pos >= 1 && pos <= len(snap.Checklist.Items) {
			item := snap.Checklist.Items[pos-1]
			return &item, nil
		}
	}

	item, err := c.FindItem(ctx, ref)
	if err != nil {
		return nil, remoteError(fmt.Sprintf("find item %q", ref), err)
	}
	return item, nil
}
