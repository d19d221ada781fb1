package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/ttfparse/internal/fontload"
	"github.com/npillmayer/ttfparse/ot"
	"github.com/npillmayer/ttfparse/otquery"
	"github.com/thatisuday/commando"
)

func runFontCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontName := strings.TrimSpace(args["font"].Value)
	if fontName == "" {
		fatalf("font path is required")
	}
	otf, ff, index := mustLoadFont(fontName, flags)

	fmt.Printf("Path: %s\n", ff.Path)
	if ff.IsCollection() {
		fmt.Printf("Collection: font %d of %d\n", index, ff.Count)
	}
	fmt.Printf("Type: %s\n", otquery.FontType(otf))
	names := otquery.NameInfo(otf, 0)
	if family := names["family"]; family != "" {
		fmt.Printf("Family: %s\n", family)
	}
	if sub := names["subfamily"]; sub != "" {
		fmt.Printf("Subfamily: %s\n", sub)
	}
	if version := names["version"]; version != "" {
		fmt.Printf("Version: %s\n", version)
	}
	upem, _ := otf.UnitsPerEm()
	fmt.Printf("Glyphs: %d, units per em: %d\n", otf.NumberOfGlyphs(), upem)
	if info, ok := otquery.Variations(otf); ok {
		axes := make([]string, len(info.Axes))
		for i, a := range info.Axes {
			axes[i] = fmt.Sprintf("%s(%g..%g..%g)", a.Tag, a.MinValue, a.DefValue, a.MaxValue)
		}
		fmt.Printf("Axes: %s, named instances: %d\n", strings.Join(axes, " "), len(info.Instances))
	}

	tags := otf.TableTags()
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	fmt.Printf("Tables (%d):", len(tags))
	for _, tag := range tags {
		fmt.Printf(" %s", tag.String())
	}
	fmt.Println()

	layoutTables := otquery.LayoutTables(otf)
	sort.Strings(layoutTables)
	fmt.Printf("Layout: %s\n", strings.Join(layoutTables, ","))

	errs := otf.Errors()
	warns := otf.Warnings()
	crit := otf.CriticalErrors()
	fmt.Printf("Issues: errors=%d warnings=%d critical=%d\n", len(errs), len(warns), len(crit))

	if len(args["tables"].Value) > 0 {
		printSelectedTables(otf, args["tables"].Value)
	}
	showIssues, err := flags["errors"].GetBool()
	if err != nil {
		fatalf("invalid --errors flag: %v", err)
	}
	if showIssues {
		for _, e := range errs {
			fmt.Printf("error: %s\n", e.Error())
		}
		for _, w := range warns {
			fmt.Printf("warning: %s\n", w.String())
		}
	}
	if n := mustFlagInt(flags["check"], "check"); n > 0 {
		mismatches := fontload.CrossCheck(otf, ff.Binary, index, n)
		for _, m := range mismatches {
			fmt.Printf("mismatch: %s\n", m.String())
		}
		fmt.Printf("Cross-check: %d mismatches\n", len(mismatches))
	}
}

func printSelectedTables(otf *ot.Font, raw string) {
	requested := splitCSVSpace(raw)
	for _, t := range requested {
		tagName := strings.TrimSpace(t)
		if tagName == "" {
			continue
		}
		tag := ot.T(tagName)
		table := otf.Table(tag)
		if table == nil {
			fmt.Printf("table %s: missing\n", tagName)
			continue
		}
		off, size := table.Extent()
		fmt.Printf("table %s: offset=%d size=%d\n", tagName, off, size)
	}
}
