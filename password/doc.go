// Package password implements password hashing and verification.
//
// # Formats
//
// [Bcrypt] produces standard modular-crypt hashes ($2a$/$2b$) and is the
// default. [Argon2] produces and reads PHC strings:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Decode failures wrap [ErrMalformedHash].
//
// [Multi] hashes with one primary algorithm and verifies against whichever
// hasher recognizes the stored prefix, so accounts hashed under a previous
// algorithm keep working. NeedsUpgrade reports hashes that should be
// re-computed on the next successful login.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords. Callers supply plaintext and receive hashes.
//   - Import any other shopAuth package.
//   - Log plaintext passwords or hash parameters at runtime.
package password
