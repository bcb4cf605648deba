package scene

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// NodeID is a content address: the SHA-256 of a node's canonical key.
type NodeID [sha256.Size]byte

// ZeroID is the unset NodeID.
var ZeroID NodeID

// NewNodeID hashes key into a NodeID.
func NewNodeID(key string) NodeID {
	return NodeID(sha256.Sum256([]byte(key)))
}

// ContentID derives a NodeID from a node's kind, payload and children, so
// structurally equal nodes share an ID.
func ContentID(kind NodeKind, data NodeData, children []NodeID) NodeID {
	payload, err := json.Marshal(data)
	if err != nil {
		payload = []byte(err.Error())
	}
	key := fmt.Sprintf("%s|%T|%s", kind, data, payload)
	for _, c := range children {
		key += "|" + c.String()
	}
	return NewNodeID(key)
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool { return id == ZeroID }

func (id NodeID) String() string { return hex.EncodeToString(id[:]) }

// Short returns the first eight hex digits of id.
func (id NodeID) Short() string { return id.String()[:8] }

// MarshalText encodes id as hex.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex NodeID.
func (id *NodeID) UnmarshalText(b []byte) error {
	if hex.DecodedLen(len(b)) != len(id) {
		return fmt.Errorf("scene: node id %q: want %d hex digits", b, 2*len(id))
	}
	_, err := hex.Decode(id[:], b)
	return err
}
