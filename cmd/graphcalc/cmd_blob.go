package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/graphcalc/session"
)

func newEncodeCmd() *cobra.Command {
	var sf sessionFlags

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the share blob of a session",
		Long: `Encode a session as a compact URL-safe share blob.

Examples:
  graphcalc encode -e "y = x^2" --view -5,5,-1,10
  graphcalc encode -f session.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := sf.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			blob, err := session.Encode(sess)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), blob)
			return err
		},
	}

	sf.bind(cmd)
	return cmd
}

func newDecodeCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "decode blob",
		Short: "Print a share blob as a YAML session",
		Long: `Decode a share blob and print it as a YAML session file.

Unreadable parts of the blob keep their defaults and are reported on stderr.
With --strict they are an error instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.DecodeStrict(strings.TrimSpace(args[0]))
			if err != nil {
				if strict {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			return session.WriteYAML(cmd.OutOrStdout(), sess)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on any unreadable field")
	return cmd
}
