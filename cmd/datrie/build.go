package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/hupe1980/datrie"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [keys-file] [output]",
		Short: "Build a trie from a key list",
		Long: `Build a trie from a file with one key per line. A key may be
followed by a tab and a non-negative value; either all lines carry a
value or none does. Without values each key maps to its position in
byte order. Use - to read keys from stdin.`,
		Args:    cobra.ExactArgs(2),
		PreRunE: bindFlags,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := parseLocation(args[1])
			if err != nil {
				return err
			}

			var compression datrie.Compression
			archive := viper.GetBool("archive")
			if name := viper.GetString("compress"); name != "" {
				if compression, err = datrie.ParseCompression(name); err != nil {
					return err
				}
				archive = true
			}

			mode, err := datrie.ParseDumpMode(viper.GetString("dump-mode"))
			if err != nil {
				return err
			}

			keys, values, err := readKeys(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			t, err := newTrie()
			if err != nil {
				return err
			}

			start := time.Now()
			if err := t.Build(keys, values); err != nil {
				return err
			}
			if err := save(cmd.Context(), t, out, viper.GetInt64("offset"), mode, archive, compression); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "built %d keys into %d units (%d bytes) in %s, written to %s\n",
				len(keys), t.Size(), t.TotalSize(), time.Since(start).Round(time.Millisecond), out)
			return nil
		},
	}

	cmd.Flags().Int64("offset", 0, wrapString("byte offset of a raw dump inside the output file"))
	cmd.Flags().String("dump-mode", "overwrite", wrapString("how a raw dump treats an existing output file: overwrite keeps bytes outside the written window, truncate empties the file first, append writes at its end"))
	cmd.Flags().Bool("archive", false, wrapString("write a checksummed archive instead of a raw dump"))
	cmd.Flags().String("compress", "", wrapString("archive compression (none, lz4, zstd), implies --archive"))
	return cmd
}

// readKeys parses a key list. name "-" reads from stdin.
func readKeys(stdin io.Reader, name string) ([][]byte, []int32, error) {
	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		r = f
	}

	var (
		keys   [][]byte
		values []int32
		tabbed int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for line := 1; sc.Scan(); line++ {
		text := sc.Bytes()
		key, raw, hasValue := bytes.Cut(text, []byte{'\t'})
		if hasValue {
			v, err := strconv.ParseInt(string(raw), 10, 32)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: invalid value %q", line, raw)
			}
			values = append(values, int32(v))
			tabbed++
		}
		keys = append(keys, bytes.Clone(key))
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}

	switch tabbed {
	case 0:
		return keys, nil, nil
	case len(keys):
		return keys, values, nil
	default:
		return nil, nil, fmt.Errorf("%d of %d lines carry a value; use values on all lines or on none", tabbed, len(keys))
	}
}
