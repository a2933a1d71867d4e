package replay

import "github.com/joshuapare/heapsim/internal/script"

// DivergenceSource makes first-fit and best-fit part ways: both free the
// 6-unit and trailing 4-unit regions, then a 4-unit request lands at 0 under
// first-fit and at 10 under best-fit, so only best-fit can still place 6.
const DivergenceSource = `# first-fit vs best-fit divergence
arena 14
alloc a 6
alloc b 4
alloc c 4
free a
free c
alloc d 4
alloc e 6
`

// ClassicSource is the textbook 11-unit trace: both policies coalesce the
// freed 3-unit region with the tail and place the final request at 5.
const ClassicSource = `# classic coalescing trace
arena 11
alloc a 4
alloc b 1
alloc c 3
free a
free c
alloc d 5
`

// Demo returns the divergence scenario.
func Demo() *Script { return mustLoad(DivergenceSource) }

// Classic returns the 11-unit coalescing scenario.
func Classic() *Script { return mustLoad(ClassicSource) }

func mustLoad(src string) *Script {
	s, err := script.ParseBytes([]byte(src))
	if err != nil {
		panic(err)
	}
	return s
}
