package datrie_test

import (
	"bytes"
	"fmt"
	"log"

	"github.com/hupe1980/datrie"
)

func Example() {
	t := datrie.New()
	if err := t.BuildStrings([]string{"he", "hell", "hello", "world"}, []int32{2, 3, 0, 1}); err != nil {
		log.Fatal(err)
	}

	v, ok := t.FindString("hello")
	fmt.Println(v, ok)

	_, ok = t.FindString("hel")
	fmt.Println(ok)

	values, total := t.CommonPrefixSearch([]byte("hello"), 10)
	fmt.Println(values, total)
	// Output:
	// 0 true
	// false
	// [2 3 0] 3
}

func ExampleTrie_Traverse() {
	t := datrie.New()
	if err := t.BuildStrings([]string{"he", "hell", "hello"}, nil); err != nil {
		log.Fatal(err)
	}

	key := []byte("hello")
	nodePos := 0
	for i := range key {
		keyPos := i
		switch v := t.Traverse(key[:i+1], &nodePos, &keyPos); v {
		case datrie.TraverseNoValue:
			fmt.Printf("%s: prefix\n", key[:i+1])
		case datrie.TraverseDeadEnd:
			fmt.Printf("%s: dead end\n", key[:i+1])
		default:
			fmt.Printf("%s: %d\n", key[:i+1], v)
		}
	}
	// Output:
	// h: prefix
	// he: 0
	// hel: prefix
	// hell: 1
	// hello: 2
}

func ExampleTrie_PredictiveSearch() {
	t := datrie.New()
	if err := t.BuildStrings([]string{"car", "cart", "cat", "dog"}, nil); err != nil {
		log.Fatal(err)
	}

	for key, v := range t.PredictiveSearch([]byte("car")) {
		fmt.Println(string(key), v)
	}
	// Output:
	// car 0
	// cart 1
}

func ExampleTrie_WriteArchive() {
	t := datrie.New()
	if err := t.BuildStrings([]string{"alpha", "beta"}, []int32{10, 20}); err != nil {
		log.Fatal(err)
	}

	var buf bytes.Buffer
	if err := t.WriteArchive(&buf, datrie.CompressionZstd); err != nil {
		log.Fatal(err)
	}

	loaded := datrie.New()
	if err := loaded.ReadArchive(&buf); err != nil {
		log.Fatal(err)
	}

	v, _ := loaded.FindString("beta")
	fmt.Println(v)
	// Output: 20
}
