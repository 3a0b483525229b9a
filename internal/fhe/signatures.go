package fhe

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Canonical event signature strings emitted by the FHE executor contract.
// These are a versioned external contract: any change to the executor's
// event shapes requires updating this table and the matching layout
// decoder in lockstep.
var eventSignatures = map[string]string{
	"FheAdd":         "FheAdd(address,bytes32,bytes32,bytes1,bytes32)",
	"FheSub":         "FheSub(address,bytes32,bytes32,bytes1,bytes32)",
	"FheMul":         "FheMul(address,bytes32,bytes32,bytes1,bytes32)",
	"FheDiv":         "FheDiv(address,bytes32,bytes32,bytes1,bytes32)",
	"FheRem":         "FheRem(address,bytes32,bytes32,bytes1,bytes32)",
	"FheBitAnd":      "FheBitAnd(address,bytes32,bytes32,bytes1,bytes32)",
	"FheBitOr":       "FheBitOr(address,bytes32,bytes32,bytes1,bytes32)",
	"FheBitXor":      "FheBitXor(address,bytes32,bytes32,bytes1,bytes32)",
	"FheShl":         "FheShl(address,bytes32,bytes32,bytes1,bytes32)",
	"FheShr":         "FheShr(address,bytes32,bytes32,bytes1,bytes32)",
	"FheRotl":        "FheRotl(address,bytes32,bytes32,bytes1,bytes32)",
	"FheRotr":        "FheRotr(address,bytes32,bytes32,bytes1,bytes32)",
	"FheEq":          "FheEq(address,bytes32,bytes32,bytes1,bytes32)",
	"FheNe":          "FheNe(address,bytes32,bytes32,bytes1,bytes32)",
	"FheGe":          "FheGe(address,bytes32,bytes32,bytes1,bytes32)",
	"FheGt":          "FheGt(address,bytes32,bytes32,bytes1,bytes32)",
	"FheLe":          "FheLe(address,bytes32,bytes32,bytes1,bytes32)",
	"FheLt":          "FheLt(address,bytes32,bytes32,bytes1,bytes32)",
	"FheMin":         "FheMin(address,bytes32,bytes32,bytes1,bytes32)",
	"FheMax":         "FheMax(address,bytes32,bytes32,bytes1,bytes32)",
	"FheNeg":         "FheNeg(address,bytes32,bytes32)",
	"FheNot":         "FheNot(address,bytes32,bytes32)",
	"TrivialEncrypt": "TrivialEncrypt(address,uint256,uint8,bytes32)",
	"Cast":           "Cast(address,bytes32,uint8,bytes32)",
	"FheIfThenElse":  "FheIfThenElse(address,bytes32,bytes32,bytes32,bytes32)",
	"VerifyInput":    "VerifyInput(address,bytes32,address,bytes,uint8,bytes32)",
	"FheRand":        "FheRand(address,uint8,bytes16,bytes32)",
	"FheRandBounded": "FheRandBounded(address,uint256,uint8,bytes16,bytes32)",
}

// topicToName maps keccak256(signature) to the event name. Built once at
// package init and read-only afterwards.
var topicToName = buildTopicIndex()

// nameToTopic is the reverse index.
var nameToTopic = buildNameIndex()

func buildTopicIndex() map[common.Hash]string {
	index := make(map[common.Hash]string, len(eventSignatures))
	for name, sig := range eventSignatures {
		index[crypto.Keccak256Hash([]byte(sig))] = name
	}
	return index
}

func buildNameIndex() map[string]common.Hash {
	index := make(map[string]common.Hash, len(topicToName))
	for topic, name := range topicToName {
		index[name] = topic
	}
	return index
}

// Identify returns the event name for a topic0 hash, if known.
func Identify(topic0 common.Hash) (string, bool) {
	name, ok := topicToName[topic0]
	return name, ok
}

// IsKnown reports whether topic0 matches any known FHE event signature.
func IsKnown(topic0 common.Hash) bool {
	_, ok := topicToName[topic0]
	return ok
}

// SignatureOf returns the topic0 hash for a canonical event name.
func SignatureOf(name string) (common.Hash, bool) {
	topic, ok := nameToTopic[name]
	return topic, ok
}

// EventNames returns the canonical event names in sorted order.
func EventNames() []string {
	names := make([]string, 0, len(eventSignatures))
	for name := range eventSignatures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownTopics returns every registered topic0 hash. Useful to build a
// topic filter when fetching logs.
func KnownTopics() []common.Hash {
	topics := make([]common.Hash, 0, len(topicToName))
	for _, name := range EventNames() {
		topics = append(topics, nameToTopic[name])
	}
	return topics
}
