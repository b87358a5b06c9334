// Package cli wires the cobra command surface: the root scrape command plus
// export, calendar, and stats subcommands. All heavy lifting lives in the
// crawler, scraper, storage, and export packages; this package only parses
// flags, loads configuration, and connects components.
package cli
