package model

import (
	"sort"
	"strings"
)

// NormalizeSWCList splits a comma-separated SWC list and normalizes each entry
// to the SWC-XXX form, making "SWC-101", "swc-101" and "101" equivalent.
func NormalizeSWCList(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(list, ",") {
		id := strings.ToUpper(strings.TrimSpace(part))
		if id == "" {
			continue
		}
		if !strings.HasPrefix(id, "SWC") {
			id = "SWC-" + id
		}
		out = append(out, id)
	}
	return out
}

var swcTitles = map[string]string{
	"SWC-100": "Function Default Visibility",
	"SWC-101": "Integer Overflow and Underflow",
	"SWC-102": "Outdated Compiler Version",
	"SWC-103": "Floating Pragma",
	"SWC-104": "Unchecked Call Return Value",
	"SWC-105": "Unprotected Ether Withdrawal",
	"SWC-106": "Unprotected SELFDESTRUCT Instruction",
	"SWC-107": "Reentrancy",
	"SWC-108": "State Variable Default Visibility",
	"SWC-109": "Uninitialized Storage Pointer",
	"SWC-110": "Assert Violation",
	"SWC-111": "Use of Deprecated Solidity Functions",
	"SWC-112": "Delegatecall to Untrusted Callee",
	"SWC-113": "DoS with Failed Call",
	"SWC-114": "Transaction Order Dependence",
	"SWC-115": "Authorization through tx.origin",
	"SWC-116": "Block values as a proxy for time",
	"SWC-117": "Signature Malleability",
	"SWC-118": "Incorrect Constructor Name",
	"SWC-119": "Shadowing State Variables",
	"SWC-120": "Weak Sources of Randomness from Chain Attributes",
	"SWC-121": "Missing Protection against Signature Replay Attacks",
	"SWC-122": "Lack of Proper Signature Verification",
	"SWC-123": "Requirement Violation",
	"SWC-124": "Write to Arbitrary Storage Location",
	"SWC-125": "Incorrect Inheritance Order",
	"SWC-126": "Insufficient Gas Griefing",
	"SWC-127": "Arbitrary Jump with Function Type Variable",
	"SWC-128": "DoS With Block Gas Limit",
	"SWC-129": "Typographical Error",
	"SWC-130": "Right-To-Left-Override control character (U+202E)",
	"SWC-131": "Presence of unused variables",
	"SWC-132": "Unexpected Ether balance",
	"SWC-133": "Hash Collisions With Multiple Variable Length Arguments",
	"SWC-134": "Message call with hardcoded gas amount",
	"SWC-135": "Code With No Effects",
	"SWC-136": "Unencrypted Private Data On-Chain",
}

// SWCTitle returns the registry title for an SWC ID, or "" if unknown.
func SWCTitle(id string) string {
	ids := NormalizeSWCList(id)
	if len(ids) != 1 {
		return ""
	}
	return swcTitles[ids[0]]
}

type SWCEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// SWCRegistry lists the known weakness classes ordered by ID.
func SWCRegistry() []SWCEntry {
	out := make([]SWCEntry, 0, len(swcTitles))
	for id, title := range swcTitles {
		out = append(out, SWCEntry{ID: id, Title: title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
