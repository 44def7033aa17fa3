package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/wippyai/fvm-abi/codec"
	"github.com/wippyai/fvm-abi/types"
)

func main() {
	var (
		typeSig     = flag.String("type", "", "Type signature, e.g. '(u64, vec<u8>)' or 'str[4]'")
		dataHex     = flag.String("data", "", "Call data to decode (hex, 0x prefix optional)")
		value       = flag.String("value", "", "Value to encode, e.g. '(42, [1, 2, 3])'")
		maxDepth    = flag.Int("max-depth", codec.DefaultMaxDepth, "Nesting depth limit")
		maxBytes    = flag.Uint64("max-bytes", codec.DefaultMaxTotalBytes, "Total byte limit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *typeSig == "" || (*dataHex == "" && *value == "") {
		fmt.Fprintln(os.Stderr, "Usage: abidump -type <signature> -data <hex>   (decode)")
		fmt.Fprintln(os.Stderr, "       abidump -type <signature> -value <text> (encode)")
		fmt.Fprintln(os.Stderr, "       abidump -i                              (interactive mode)")
		os.Exit(1)
	}

	opts := codec.Options{MaxDepth: *maxDepth, MaxTotalBytes: *maxBytes}
	var err error
	if *dataHex != "" {
		err = decode(*typeSig, *dataHex, opts)
	} else {
		err = encode(*typeSig, *value, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func decode(sig, dataHex string, opts codec.Options) error {
	desc, err := types.ParseSignature(sig, nil)
	if err != nil {
		return fmt.Errorf("parse signature: %w", err)
	}

	data, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(dataHex), "0x"))
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}

	val, consumed, err := codec.NewDecoderWithOptions(opts).Decode(data, desc)
	if err != nil {
		return err
	}

	fmt.Printf("Type:   %s\n", desc.Signature())
	fmt.Printf("Inline: %d bytes, heap: %d bytes\n", consumed, len(data)-consumed)
	fmt.Printf("Value:  %s\n", val)
	return nil
}

func encode(sig, text string, opts codec.Options) error {
	desc, err := types.ParseSignature(sig, nil)
	if err != nil {
		return fmt.Errorf("parse signature: %w", err)
	}

	val, err := parseValue(text, desc)
	if err != nil {
		return fmt.Errorf("parse value: %w", err)
	}

	data, err := codec.NewEncoderWithOptions(opts).Encode(val, desc)
	if err != nil {
		return err
	}

	fmt.Printf("Type:  %s\n", desc.Signature())
	fmt.Printf("Bytes: %d\n", len(data))
	fmt.Println(wordDump(data))
	return nil
}

// wordDump renders call data one word per line with byte offsets, the
// layout a caller sees when stepping through a call frame.
func wordDump(data []byte) string {
	var b strings.Builder
	for off := 0; off < len(data); off += 8 {
		end := off + 8
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(&b, "%04x  %x\n", off, data[off:end])
	}
	return strings.TrimRight(b.String(), "\n")
}
