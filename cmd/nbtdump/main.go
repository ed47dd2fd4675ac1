// Command nbtdump decodes an NBT document and prints its tree
// structure to stdout. It auto-detects gzip/zlib wrapping and decodes
// through the dynamic any-tree decoder, so it works on arbitrary
// documents without a Go type describing their shape.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"reflect"
	"sort"

	"github.com/arloliu/nbtgo"
	"github.com/arloliu/nbtgo/nbtfile"
	"github.com/arloliu/nbtgo/typeinfo"
)

// anyType is the reflect.Type of the empty interface, the descriptor
// the adapter package's dynamic any-tree decoder is registered under.
var anyType = reflect.TypeOf((*any)(nil)).Elem()

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <file.nbt>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := dump(flag.Arg(0)); err != nil {
		log.Fatalf("nbtdump: %v", err)
	}
}

func dump(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	eng, err := nbtgo.NewEngine()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	r, closeFn, err := nbtfile.Open(f)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer closeFn()

	if _, err := r.Peek(); err != nil {
		return fmt.Errorf("peek root tag: %w", err)
	}

	name, err := r.Name()
	if err != nil {
		return fmt.Errorf("read root name: %w", err)
	}

	deser, err := eng.GetDeserializer(typeinfo.OfType(anyType))
	if err != nil {
		return fmt.Errorf("resolve any decoder: %w", err)
	}

	val, err := deser.Decode(r)
	if err != nil {
		return fmt.Errorf("decode root value: %w", err)
	}

	fmt.Printf("%q\n", name)
	printTree(val.Interface(), 1)

	return nil
}

func printTree(v any, depth int) {
	indent := func(n int) string {
		b := make([]byte, n*2)
		for i := range b {
			b[i] = ' '
		}

		return string(b)
	}

	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			fmt.Printf("%s%s: ", indent(depth), k)

			switch x[k].(type) {
			case map[string]any, []any:
				fmt.Println()
				printTree(x[k], depth+1)
			default:
				fmt.Printf("%v\n", x[k])
			}
		}
	case []any:
		for i, el := range x {
			fmt.Printf("%s[%d]: ", indent(depth), i)

			switch el.(type) {
			case map[string]any, []any:
				fmt.Println()
				printTree(el, depth+1)
			default:
				fmt.Printf("%v\n", el)
			}
		}
	default:
		fmt.Printf("%s%v\n", indent(depth), x)
	}
}

