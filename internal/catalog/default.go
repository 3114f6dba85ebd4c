package catalog

import "fmt"

const (
	resultsHost = "https://www.jsfresults.com/National"
	domestic    = "国内"
)

var blockNames = []string{
	"東北・北海道",
	"関東",
	"東京",
	"中部",
	"近畿",
	"中四国九州",
}

type seasonSpec struct {
	year         int
	schema       Schema
	nationalsDir string
	nationalsNo  int
	nationalsMon int
	blockMonths  []int // per block, 0 = resolve from page text
}

// Tokyo and Kinki blocks start in late September and run into October.
var seasons = []seasonSpec{
	{2024, SchemaCATRS, "nationals", 93, 12, []int{10, 10, 9, 10, 9, 10}},
	{2023, SchemaDataHTM, "national", 92, 12, []int{10, 10, 9, 10, 0, 10}},
	{2022, SchemaDataHTM, "nationals", 91, 0, []int{0, 0, 0, 0, 0, 0}},
	{2021, SchemaDataHTM, "nationalsenior", 90, 0, []int{0, 0, 0, 0, 0, 0}},
}

// Default returns a fresh copy of the built-in catalog, newest season first.
func Default() []*Source {
	sources := make([]*Source, 0, len(seasons)*(len(blockNames)+1))
	for _, ss := range seasons {
		sources = append(sources, ss.sources()...)
	}
	return sources
}

func (ss seasonSpec) sources() []*Source {
	season := fmt.Sprintf("%d-%02d", ss.year, (ss.year+1)%100)
	root := fmt.Sprintf("%s/%d-%d/fs_j/", resultsHost, ss.year, ss.year+1)

	out := []*Source{{
		Name:       fmt.Sprintf("第%d回全日本フィギュアスケート選手権大会", ss.nationalsNo),
		Season:     season,
		MonthHint:  ss.nationalsMon,
		Organizer:  domestic,
		BaseURL:    root + ss.nationalsDir + "/",
		Categories: categoriesFor(ss.schema),
		Schema:     ss.schema,
	}}

	for i, block := range blockNames {
		out = append(out, &Source{
			Name:       fmt.Sprintf("%d %s選手権大会", ss.year, block),
			Season:     season,
			MonthHint:  ss.blockMonths[i],
			Organizer:  domestic,
			BaseURL:    fmt.Sprintf("%sblock%d/", root, i+1),
			Categories: categoriesFor(ss.schema),
			Schema:     ss.schema,
		})
	}

	return out
}

func categoriesFor(schema Schema) []Category {
	if schema == SchemaCATRS {
		return []Category{
			{Label: "男子", File: "CAT001RS.htm"},
			{Label: "女子", File: "CAT002RS.htm"},
		}
	}
	return []Category{
		{Label: "男子", File: "data0190.htm"},
		{Label: "女子", File: "data0290.htm"},
	}
}
