package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/agency-sheet/internal/errors"
	"github.com/KirkDiggler/agency-sheet/internal/render"
	"github.com/KirkDiggler/agency-sheet/internal/services/sheet"
)

var (
	fromRecord  string
	skipPDF     bool
	loadDraftID string
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Create, edit and save character drafts",
}

var draftCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a draft holding the sheet defaults",
	Args:  cobra.NoArgs,
	RunE:  runDraftCreate,
}

var draftGetCmd = &cobra.Command{
	Use:   "get <draft-id>",
	Short: "Print a draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftGet,
}

var draftSetCmd = &cobra.Command{
	Use:   "set <draft-id> <key=value>...",
	Short: "Set form fields; selections fill their dependent fields",
	Long: `Set one or more form fields in order. Keys are record keys such as 姓名,
异常体, 现实 (as name-type) or 职能; 图片路径 sets the portrait.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDraftSet,
}

var draftDeleteCmd = &cobra.Command{
	Use:   "delete <draft-id>",
	Short: "Delete a draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftDelete,
}

var draftSaveCmd = &cobra.Command{
	Use:   "save <draft-id>",
	Short: "Save a draft as JSON, HTML and PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftSave,
}

var draftLoadCmd = &cobra.Command{
	Use:   "load <record.json>",
	Short: "Load a saved record into a draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftLoad,
}

var draftRecordCmd = &cobra.Command{
	Use:   "record <draft-id>",
	Short: "Print the record a draft would save",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraftRecord,
}

func init() {
	draftCreateCmd.Flags().StringVar(&fromRecord, "from", "", "record JSON applied over the defaults")
	draftSaveCmd.Flags().BoolVar(&skipPDF, "skip-pdf", false, "stop after the HTML file")
	draftLoadCmd.Flags().StringVar(&loadDraftID, "draft", "", "existing draft to load into")

	draftCmd.AddCommand(draftCreateCmd)
	draftCmd.AddCommand(draftGetCmd)
	draftCmd.AddCommand(draftSetCmd)
	draftCmd.AddCommand(draftDeleteCmd)
	draftCmd.AddCommand(draftSaveCmd)
	draftCmd.AddCommand(draftLoadCmd)
	draftCmd.AddCommand(draftRecordCmd)
}

func runDraftCreate(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.cleanup()

	input := &sheet.CreateDraftInput{}
	if fromRecord != "" {
		rec, err := render.ReadRecord(fromRecord)
		if err != nil {
			return err
		}
		input.Record = &rec
	}

	out, err := a.service.CreateDraft(cmd.Context(), input)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out.Draft)
}

func runDraftGet(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.cleanup()

	out, err := a.service.GetDraft(cmd.Context(), &sheet.GetDraftInput{DraftID: args[0]})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out.Draft)
}

func runDraftSet(cmd *cobra.Command, args []string) error {
	updates, err := parseUpdates(args[1:])
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.cleanup()

	out, err := a.service.UpdateDraft(cmd.Context(), &sheet.UpdateDraftInput{
		DraftID: args[0],
		Updates: updates,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out.Draft)
}

func runDraftDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.cleanup()

	if _, err := a.service.DeleteDraft(cmd.Context(), &sheet.DeleteDraftInput{DraftID: args[0]}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}

func runDraftSave(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.cleanup()

	out, err := a.service.SaveDraft(cmd.Context(), &sheet.SaveDraftInput{
		DraftID: args[0],
		SkipPDF: skipPDF || cfg.PDF.Skip,
	})
	if out != nil {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Directory: %s\n", out.Dir)
		printStep(w, "JSON", out.JSONPath)
		printStep(w, "HTML", out.HTMLPath)
		printStep(w, "PDF", out.PDFPath)
	}
	return err
}

func runDraftLoad(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.cleanup()

	out, err := a.service.LoadRecord(cmd.Context(), &sheet.LoadRecordInput{
		JSONPath: args[0],
		DraftID:  loadDraftID,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out.Draft)
}

func runDraftRecord(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.cleanup()

	out, err := a.service.PreviewDraft(cmd.Context(), &sheet.PreviewDraftInput{DraftID: args[0]})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out.Record)
}

// parseUpdates splits key=value arguments on the first '='.
func parseUpdates(args []string) ([]sheet.FieldUpdate, error) {
	updates := make([]sheet.FieldUpdate, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errors.InvalidArgumentf("expected key=value, got %q", arg)
		}
		updates = append(updates, sheet.FieldUpdate{Key: key, Value: value})
	}
	return updates, nil
}
