// Package storage persists harvested competition links.
//
// A harvest is written twice: as a CSV export (swimming_competitions.csv by
// default) meant for spreadsheets, and as a JSON snapshot (snapshot.json) used
// to report which competitions are new since the previous run. The default
// storage location is ~/.local/share/swim-archive/.
package storage
