// Package text assembles positioned glyphs into the word and line structures
// the extractors consume.
//
// The ladder has two rungs: [MergeWords] fuses adjacent same-font glyphs on a
// shared baseline into TextChunks (respecting vertical rulings as split
// barriers), and [GroupByLines] bins chunks into baseline bands.
package text
