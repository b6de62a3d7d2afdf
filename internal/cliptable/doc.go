// Package cliptable parses clip definition tables into ordered clip specs.
//
// Two physical formats are tolerated, a markdown pipe table and a CSV file,
// both carrying the same named columns: No, Start, End, Summary, Title,
// Hook. Column matching is name-based and case-insensitive so reordered or
// extra columns are harmless. Bad rows are collected as RowErrors instead
// of aborting the parse; structural problems (unrecognized format, missing
// required columns, duplicate sequence numbers) fail the whole table.
package cliptable
