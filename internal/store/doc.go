// Package store appends and reads subtitle run records in a local SQLite
// database.
//
// The table layout is fixed (id, audio_file, generated_subtitles,
// translated_subtitles) so existing databases remain readable. Opening a store
// creates the table when it is missing and never alters existing rows.
// Writers from separate processes serialize on a lock file next to the
// database.
package store
