package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/graphcalc/session"
	"github.com/gogpu/graphcalc/store"
)

const defaultDB = "graphcalc.db"

func openStore(path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return st, nil
}

func dbFlag(cmd *cobra.Command, dst *string) {
	cmd.Flags().StringVar(dst, "db", defaultDB, "session database")
}

func newSaveCmd() *cobra.Command {
	var (
		sf     sessionFlags
		dbPath string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "save name",
		Short: "Save a session under a name",
		Long: `Save a session to the database, replacing any session with the same name.

Examples:
  graphcalc save circles -e "x^2 + y^2 = 4" -e "x^2 + y^2 = 9"
  graphcalc save demo -f session.yaml --title "Demo"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sf.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if title != "" {
				sess.Title = title
			}
			st, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Save(cmd.Context(), args[0], sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d lines)\n", args[0], len(sess.Expressions))
			return nil
		},
	}

	sf.bind(cmd)
	dbFlag(cmd, &dbPath)
	cmd.Flags().StringVar(&title, "title", "", "session title")

	return cmd
}

func newLoadCmd() *cobra.Command {
	var (
		dbPath string
		blob   bool
	)

	cmd := &cobra.Command{
		Use:   "load name",
		Short: "Print a saved session",
		Long: `Print a saved session as YAML, or as a share blob with --blob.

Examples:
  graphcalc load circles > circles.yaml
  graphcalc render --blob "$(graphcalc load circles --blob)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			sess, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !blob {
				return session.WriteYAML(cmd.OutOrStdout(), sess)
			}
			b, err := session.Encode(sess)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), b)
			return err
		},
	}

	dbFlag(cmd, &dbPath)
	cmd.Flags().BoolVar(&blob, "blob", false, "print a share blob instead of YAML")

	return cmd
}

func newListCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			entries, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTITLE\tLINES\tUPDATED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.Name, e.Title, e.Lines, e.Updated.Local().Format(time.DateTime))
			}
			return tw.Flush()
		},
	}

	dbFlag(cmd, &dbPath)
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "delete name",
		Short: "Delete a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Delete(cmd.Context(), args[0])
		},
	}

	dbFlag(cmd, &dbPath)
	return cmd
}
