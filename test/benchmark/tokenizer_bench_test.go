package benchmark

import (
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer/tokenizer"
)

var sampleTexts = map[string]string{
	"short": "En un lugar de la Mancha, de cuyo nombre no quiero acordarme",
	"medium": `no ha mucho tiempo que vivia un hidalgo de los de lanza en astillero,
adarga antigua, rocin flaco y galgo corredor. Una olla de algo mas vaca que carnero,
salpicon las mas noches, duelos y quebrantos los sabados, lentejas los viernes,
algun palomino de anadidura los domingos, consumian las tres partes de su hacienda.`,
	"long": strings.Repeat(`Frisaba la edad de nuestro hidalgo con los cincuenta anos;
era de complexion recia, seco de carnes, enjuto de rostro, gran madrugador y amigo
de la caza. Quieren decir que tenia el sobrenombre de Quijada, o Quesada, que en
esto hay alguna diferencia en los autores que deste caso escriben. `, 50),
}

func BenchmarkTokenize(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := tokenizer.Tokenize(text, tokenizer.DefaultMinWordLength)
				_ = tokens
			}
		})
	}
}

func BenchmarkScan(b *testing.B) {
	text := sampleTexts["long"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		n := 0
		tokenizer.Scan(strings.NewReader(text), tokenizer.DefaultMinWordLength, func(tokenizer.Token) error {
			n++
			return nil
		})
	}
}

func BenchmarkTokenizeParallel(b *testing.B) {
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tokens := tokenizer.Tokenize(text, tokenizer.DefaultMinWordLength)
			_ = tokens
		}
	})
}
