package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack",
	Short: "Read framed records from stdin and print their payloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := packagerFromConfig()
		if err != nil {
			return err
		}

		buf, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("aglio unpack: reading stdin: %w", err)
		}

		for len(buf) > 0 {
			var msg message
			res, err := p.Unpack(buf, &msg)
			if err != nil {
				return fmt.Errorf("aglio unpack: %w", err)
			}
			if res.IsNeedMore() {
				logger.Warn("trailing bytes are not a complete frame", "bytes", len(buf))
				break
			}
			fmt.Fprintf(os.Stdout, "%d: %s\n", msg.Seq, msg.Payload)
			buf = buf[res.N():]
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unpackCmd)
}
