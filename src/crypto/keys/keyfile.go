package keys

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/btcsuite/btcd/btcec"
)

// SimpleKeyfile reads and writes an operator's private key as a hex string in
// a plain text file.
type SimpleKeyfile struct {
	l string
}

// NewSimpleKeyfile ...
func NewSimpleKeyfile(keyfilePath string) *SimpleKeyfile {
	return &SimpleKeyfile{l: keyfilePath}
}

// ReadKey loads the key from the keyfile. It refuses keyfiles that are
// readable by other users.
func (k *SimpleKeyfile) ReadKey() (*btcec.PrivateKey, error) {
	info, err := os.Stat(k.l)
	if err != nil {
		return nil, err
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		return nil, fmt.Errorf("permissions %o on %s are too open", perm, k.l)
	}

	buf, err := ioutil.ReadFile(k.l)
	if err != nil {
		return nil, err
	}

	rawKey, err := hex.DecodeString(strings.TrimSpace(string(buf)))
	if err != nil {
		return nil, err
	}

	return ParsePrivateKey(rawKey)
}

// WriteKey stores the key in the keyfile, readable by the owner only.
func (k *SimpleKeyfile) WriteKey(key *btcec.PrivateKey) error {
	return ioutil.WriteFile(k.l, []byte(hex.EncodeToString(DumpPrivateKey(key))), 0600)
}
