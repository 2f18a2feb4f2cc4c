package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <email>...",
	Short: "Classify email addresses",
	Long: `Classifies each address as personal, work, noreply or disposable, the
same way scan results are classified. Invalid addresses are reported as such.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	if classifier == nil {
		return errors.New("classifier not configured")
	}

	st := newStyles(cmd.OutOrStdout())
	t := st.table("Email", "Class", "Domain", "Registrable")
	for _, email := range args {
		c := classifier.Classify(email)
		if !c.IsValid {
			t.Row(email, st.Error.Render("invalid"), "", "")
			continue
		}
		t.Row(email, st.classStyle(c.Classification).Render(string(c.Classification)), c.Domain, c.RegistrableDomain)
	}
	cmd.Println(t.String())
	return nil
}
