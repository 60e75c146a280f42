package multikey_test

import (
	"fmt"

	"github.com/npillmayer/multikey"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type employee struct {
	id   uint32
	name string
}

// An employee directory indexed two ways at once: by numeric ID and by name
// under English collation rules. Both indexes always hold the same set of
// employees.
func Example() {
	coll := collate.New(language.English)
	byID := func(a, b *employee, context any) int {
		return int(a.id) - int(b.id)
	}
	byName := func(a, b *employee, context any) int {
		if c := context.(*collate.Collator).CompareString(a.name, b.name); c != 0 {
			return c
		}
		return int(a.id) - int(b.id) // collation ties break by ID
	}
	directory, err := multikey.New([]multikey.CompareFunc[*employee]{byID, byName}, coll, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	staff := []*employee{
		{id: 19, name: "Éloise"},
		{id: 7, name: "Zoe"},
		{id: 23, name: "Ahmed"},
		{id: 11, name: "eloise"},
	}
	for _, e := range staff {
		if _, _, err := directory.Add(e); err != nil {
			fmt.Println(err)
			return
		}
	}
	// keyed lookup by ID
	e, _, _ := directory.Find(multikey.FindEqual, 0, &employee{id: 23})
	fmt.Printf("#%d is %s\n", e.id, e.name)
	// the name index ignores case and accents where English collation does
	it, _ := directory.NewIterator(1)
	for {
		e, ok, _ := it.Next()
		if !ok {
			break
		}
		fmt.Printf("%s (#%d)\n", e.name, e.id)
	}
	// Output:
	// #23 is Ahmed
	// Ahmed (#23)
	// eloise (#11)
	// Éloise (#19)
	// Zoe (#7)
}
