package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/agency-sheet/internal/services/sheet"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the reference catalogs",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List anomalies, competencies with their types, and roles",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

func init() {
	catalogListCmd.Flags().BoolVar(&catalogJSON, "json", false, "print as JSON")
	catalogCmd.AddCommand(catalogListCmd)
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.cleanup()

	out, err := a.service.ListCatalogs(cmd.Context(), &sheet.ListCatalogsInput{})
	if err != nil {
		return err
	}
	if catalogJSON {
		return printJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "异常体 (%d):\n", len(out.Anomalies))
	for _, name := range out.Anomalies {
		fmt.Fprintf(w, "  - %s\n", name)
	}
	fmt.Fprintf(w, "现实 (%d):\n", len(out.Competencies))
	for _, c := range out.Competencies {
		fmt.Fprintf(w, "  - %s [%s]\n", c.Name, strings.Join(c.Types, ", "))
	}
	fmt.Fprintf(w, "职能 (%d):\n", len(out.Roles))
	for _, name := range out.Roles {
		fmt.Fprintf(w, "  - %s\n", name)
	}
	return nil
}
