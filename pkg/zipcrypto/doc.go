/*
Package zipcrypto implements the legacy "traditional PKWARE" stream cipher used by ZIP archives, usually called ZipCrypto.

Note that this is NOT secure encryption.
It's included to be able to recover lost passwords for existing archives, and should never be used to protect new data.

# How it works:

The cipher state is three 32-bit words (Keys), which start from fixed constants and are mixed with every byte of the password.
Each keystream byte is derived from the third word, and XORed with a ciphertext byte to produce plaintext.
The plaintext byte is then fed back into the key state, so decryption is strictly sequential.

Every encrypted entry starts with a 12 byte encryption header.
The last decrypted byte of that header should equal a check byte taken from the entry's local file header, which is how a password can be tested without decrypting the payload.
Verifier wraps that check.

# General guidelines:
  - A Keys value is scratch state. Create a new one per password and per stream.
  - A matching check byte doesn't prove the password is correct, since roughly 1 in 256 wrong passwords also match.
  - The same password must be provided to accurately reverse the process.
*/
package zipcrypto
