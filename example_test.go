package factorgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/factorgo"
	"github.com/hupe1980/factorgo/network"
)

const model = `
name: sprinkler
variables:
  - {id: 0, name: rain, states: ["no", "yes"]}
  - {id: 1, name: sprinkler, states: ["off", "on"]}
  - {id: 2, name: wet, states: ["no", "yes"]}
factors:
  - dims: [0]
    values: [0.8, 0.2]
  - dims: [0, 1]
    values: [0.6, 0.4, 0.99, 0.01]
  - dims: [0, 1, 2]
    values: [1, 0, 0.1, 0.9, 0.2, 0.8, 0.01, 0.99]
    sparse: true
`

// Example_query computes the posterior of rain given wet grass.
func Example_query() {
	def, err := network.Decode([]byte(model))
	if err != nil {
		log.Fatal(err)
	}
	e, err := factorgo.New(def)
	if err != nil {
		log.Fatal(err)
	}
	defer e.Close()

	posterior, err := e.Query(context.Background(), map[int]int{2: 1}, 0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%.3f %.3f\n", posterior[0], posterior[1])
	// Output: 0.642 0.358
}

// Example_recommend ranks the states of wet grass without evidence.
func Example_recommend() {
	def, err := network.Decode([]byte(model))
	if err != nil {
		log.Fatal(err)
	}
	e, err := factorgo.New(def, factorgo.WithPoolSize(2))
	if err != nil {
		log.Fatal(err)
	}
	defer e.Close()

	recs, err := e.Recommend(context.Background(), nil, 2, 2, 0)
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range recs {
		fmt.Printf("%s %.3f\n", r.Name, r.Probability)
	}
	// Output:
	// no 0.552
	// yes 0.448
}
