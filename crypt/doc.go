// Package crypt handles encrypted containers: detecting the encrypted
// variant, recovering the application identifier from the input path, and
// decrypting back to plaintext container bytes.
//
// Encrypted containers replace the plain magic marker with a version tag,
// followed by a cleartext salt fragment and IV, then the AES-256-CBC
// ciphertext. The key is an HMAC-SHA256 over the application identifier
// keyed with the salt: the identifier is the only secret material, embedded
// in the application's distribution path.
//
//	if crypt.IsEncrypted(data) {
//	    appID, err := crypt.ResolveAppID(inputPath)
//	    ...
//	    key := crypt.DeriveKey(salt, appID)
//	    plain, err := crypt.Decrypt(data, appID)
//	}
//
// Decrypt re-validates the plain container magic after removing padding; a
// wrong key surfaces as a decryption error, never as silently corrupt output.
package crypt
