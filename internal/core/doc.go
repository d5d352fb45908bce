// Package core holds the lab workspace: the directory tree, the uploaded
// CSV files, the merged per-directory table and the search over both.
//
// Nothing here knows about HTTP. The web handlers and the CLI drive the
// same [Service], which serializes every mutation so that readers always
// observe complete states.
//
// # Workspace model
//
//   - [TreeStore]: directories forming a forest; parents must exist before
//     their children and ids are never reused.
//   - [RecordStore]: parsed files, each bound to one existing directory.
//   - [ExpansionState]: which directories show their children.
//   - [Merge]: the column union of a directory's files, first-seen order,
//     one row per source row.
//
// A [Seed] (embedded YAML by default) populates the stores at startup.
//
// # Uploads
//
// [Service.StartUpload] parses in the background and inserts only when the
// whole file parsed; [Service.SubscribeProgress] streams phase updates.
// [UploadLimiter] caps how many parses run at once.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
//
// # Error Codes Reference
//
// User-facing error messages carry a code so a reported problem can be
// traced back to the failing operation.
//
// # Directory Errors (DIR001-DIR099)
//
//	DIR001 - Invalid parent: The parent directory does not exist
//	         Action: Refresh the page and choose an existing folder
//	DIR002 - Invalid directory: The directory does not exist
//	         Action: Refresh the page and select an existing folder
//	DIR003 - Empty name: A name is required
//	         Action: Enter a folder name
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	FILE002 - Invalid CSV: File is not a valid CSV
//	FILE004 - No file: No file was selected
//	FILE005 - Empty file: The uploaded file is empty
//	FILE006 - Missing header: The first row of the file is blank
//	FILE007 - Unknown mode: The parse mode is not supported
//	FILE008 - File not found: No file has the requested id
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many uploads in progress
//	UPL003 - Session expired: Upload session not found
//	UPL004 - Request cancelled
//	UPL005 - Request timeout
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid settings: A settings field failed validation
//	VAL002 - Invalid seed: The seed dataset is inconsistent
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Rate limited: Too many requests
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// # Matching
//
// An entry matches when the error wraps its sentinel (errors.Is) or, for
// entries without one, when the lowercased message contains its pattern.
// The first matching entry wins, so specific entries precede general ones.
package core
