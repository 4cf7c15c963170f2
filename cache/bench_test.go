package cache

import (
	"fmt"
	"testing"
)

func BenchmarkFNVKeyer_Key(b *testing.B) {
	keyer := FNVKeyer{}
	inputs := []string{"용접", "지게차 운반", "플라스틱 사출 금형 제조"}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = keyer.Key("checklist", inputs)
	}
}

func BenchmarkStore_Get(b *testing.B) {
	s := NewStore[string](testNS("bench"), DefaultPolicy(), nil)
	for i := 0; i < 100; i++ {
		s.Set("chat", []string{fmt.Sprintf("q%d", i)}, "v")
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Get("chat", []string{"q50"})
	}
}
