// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gostellar models Stellar transaction data and its canonical wire
// encodings. The subpackages provide the XDR codec primitives (xdr), the
// checksummed key text encoding (strkey), Ed25519 key material (keypair),
// the ledger value types, operations, transactions, and builders (ledger),
// and mnemonic-based key derivation (wallet). This package holds the named
// network definitions shared by all of them.
package gostellar

import "crypto/sha256"

// Network identifies a Stellar network by its passphrase. The SHA-256 hash
// of the passphrase is the network ID embedded in every transaction
// signature, so transactions signed for one network are invalid on all
// others.
type Network struct {
	Name       string
	Passphrase string
}

// ID returns the 32-byte network ID used in transaction signature payloads
func (n Network) ID() [32]byte {
	return sha256.Sum256([]byte(n.Passphrase))
}

// Network definitions
var (
	NetworkPublic = Network{
		Name:       "public",
		Passphrase: "Public Global Stellar Network ; September 2015",
	}
	NetworkTestnet = Network{
		Name:       "testnet",
		Passphrase: "Test SDF Network ; September 2015",
	}
	NetworkFuturenet = Network{
		Name:       "futurenet",
		Passphrase: "Test SDF Future Network ; October 2022",
	}
	NetworkStandalone = Network{
		Name:       "standalone",
		Passphrase: "Standalone Network ; February 2017",
	}

	// NetworkInvalid is used as a return value for lookup functions when a
	// network isn't found
	NetworkInvalid = Network{
		Name: "invalid",
	}
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkPublic,
	NetworkTestnet,
	NetworkFuturenet,
	NetworkStandalone,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// NetworkByPassphrase returns a predefined network by passphrase
func NetworkByPassphrase(passphrase string) Network {
	for _, network := range networks {
		if network.Passphrase == passphrase {
			return network
		}
	}
	return NetworkInvalid
}
