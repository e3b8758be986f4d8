// Package password provides the pure credential-material utilities used by the
// rotation engine: a cryptographically random, human-typable password generator
// and Argon2-based derivation of the key material transported to the credential
// backend in place of the plaintext.
package password
