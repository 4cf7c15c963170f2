package cache_test

import (
	"fmt"

	"github.com/jonwraymond/genflow/cache"
	"github.com/jonwraymond/genflow/storage"
)

func ExampleNewStore() {
	ns := storage.Namespace{App: "regai", Feature: "chat", Kind: "qa", Version: "v1"}
	store := cache.NewStore[string](ns, cache.DefaultPolicy(), storage.NewMemoryBackend())
	store.Load()

	store.Set("chat", []string{"용접", "지게차 운반"}, "generated answer")

	// Ordering and casing of inputs do not matter.
	answer, ok := store.Get("chat", []string{"지게차 운반", "용접"})
	fmt.Println(ok)
	fmt.Println(answer)
	// Output:
	// true
	// generated answer
}

func ExampleNormalizeSet() {
	fmt.Println(cache.NormalizeSet([]string{"B", " a ", "b", "A"}))
	// Output:
	// [a b]
}

func ExampleFNVKeyer_Key() {
	keyer := cache.FNVKeyer{}

	a := keyer.Key("checklist", []string{"A", "b", "a"})
	b := keyer.Key("checklist", []string{"a", "A", "B"})
	fmt.Println(a == b)
	fmt.Println(len(a))
	// Output:
	// true
	// 8
}
