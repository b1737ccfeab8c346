// Package password hashes and verifies passwords with argon2id.
//
// Hashes are stored as self-describing PHC strings, so the algorithm
// parameters and salt travel with the digest and can evolve without a
// data migration. Plaintext passwords are never logged or stored.
package password
