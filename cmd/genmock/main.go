// Command genmock writes a synthetic ENEM school CSV in the same shape as the
// published spreadsheet export: Portuguese headers, comma decimals, and a few
// deliberately broken rows so the loader's cleaning path is exercised.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/escolas.csv -n 500 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// header matches the column names of the published spreadsheet.
var header = []string{
	"ESCOLA",
	"CIÊNCIAS HUMANAS",
	"LINGUAGENS E CÓDIGOS",
	"CIÊNCIAS DA NATUREZA",
	"MATEMÁTICA",
	"REDAÇÃO",
	"MÉDIA GERAL",
	"LATITUDE",
	"LONGITUDE",
	"REGIONAL",
}

type region struct {
	name     string
	lat, lon float64
}

// A sample of SREs with the approximate coordinates of their seat.
var regions = []region{
	{"Metropolitana A", -19.92, -43.94},
	{"Metropolitana B", -19.93, -44.05},
	{"Metropolitana C", -19.82, -43.98},
	{"Uberlândia", -18.92, -48.28},
	{"Juiz de Fora", -21.76, -43.35},
	{"Montes Claros", -16.73, -43.86},
	{"Governador Valadares", -18.85, -41.95},
	{"Varginha", -21.55, -45.43},
}

var prefixes = []string{"EE", "Escola Estadual", "Colégio", "EM"}

var names = []string{
	"Afonso Pena", "Tiradentes", "Milton Campos", "Santos Dumont", "Dom Pedro II",
	"Bueno Brandão", "Juscelino Kubitschek", "Ordem e Progresso", "Cecília Meireles",
	"Carlos Drummond", "Guimarães Rosa", "Aleijadinho",
}

// invalidEvery controls how often a broken row is emitted.
const invalidEvery = 25

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	n := flag.Int("n", 200, "number of rows to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *out == "" || *n <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out, -n > 0")
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()

	invalid, err := generate(f, *n, *seed)
	if err != nil {
		return err
	}
	log.Printf("wrote %d rows (%d invalid) to %s", *n, invalid, *out)
	return nil
}

// generate writes n data rows to w and returns how many are deliberately invalid.
func generate(w io.Writer, n int, seed uint64) (int, error) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	invalid := 0
	for i := range n {
		row := mockRow(rng, i)
		if (i+1)%invalidEvery == 0 {
			breakRow(row, i)
			invalid++
		}
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush csv: %w", err)
	}
	return invalid, nil
}

func mockRow(rng *rand.Rand, i int) []string {
	r := regions[rng.IntN(len(regions))]
	name := fmt.Sprintf("%s %s %d",
		prefixes[rng.IntN(len(prefixes))], names[rng.IntN(len(names))], i+1)

	// A school-level offset keeps the area scores correlated.
	base := 420 + rng.Float64()*220
	ch := score(rng, base)
	lc := score(rng, base)
	cn := score(rng, base)
	mt := score(rng, base+15)
	red := score(rng, base+80)
	media := (ch + lc + cn + mt + red) / 5

	return []string{
		name,
		decimal(ch, 1), decimal(lc, 1), decimal(cn, 1), decimal(mt, 1), decimal(red, 0),
		decimal(media, 2),
		decimal(r.lat+(rng.Float64()-0.5)*0.4, 6),
		decimal(r.lon+(rng.Float64()-0.5)*0.4, 6),
		r.name,
	}
}

// breakRow blanks or corrupts one required field, cycling through the cases.
func breakRow(row []string, i int) {
	switch (i / invalidEvery) % 4 {
	case 0:
		row[7] = "" // latitude
	case 1:
		row[4] = "n/d" // matemática
	case 2:
		row[0] = "  " // escola
	default:
		row[9] = "" // regional
	}
}

func score(rng *rand.Rand, base float64) float64 {
	v := base + rng.NormFloat64()*35
	return min(max(v, 250), 980)
}

// decimal formats v with a comma separator, as in the source spreadsheet.
func decimal(v float64, prec int) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', prec, 64), ".", ",", 1)
}
