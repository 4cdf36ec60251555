package codec

import (
	"fmt"
	"testing"

	"github.com/hupe1980/formdb/model"
)

func benchRecords(n int) []model.Record {
	out := make([]model.Record, n)
	for i := range out {
		out[i] = model.Record{
			Word:        fmt.Sprintf("word%d", i%100),
			Form:        fmt.Sprintf("form%d", i),
			Description: "a description of moderate length",
		}
	}
	return out
}

func BenchmarkCodecs_Marshal(b *testing.B) {
	v := benchRecords(1000)

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			warm, err := c.Marshal(v)
			if err != nil {
				b.Fatal(err)
			}
			b.SetBytes(int64(len(warm)))

			b.ResetTimer()
			for b.Loop() {
				if _, err := c.Marshal(v); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCodecs_Unmarshal(b *testing.B) {
	data, err := JSON{}.Marshal(benchRecords(1000))
	if err != nil {
		b.Fatal(err)
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))

			var v []model.Record
			for b.Loop() {
				if err := c.Unmarshal(data, &v); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
