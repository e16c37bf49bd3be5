// Copyright 2017 Cameron Bergoon
// https://github.com/cbergoon/merkletree
// Licensed under the MIT License, see LICENCE file for details.

package merkle_test

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/merkle"
	"github.com/ardanlabs/blocksandbox/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// Data hashes its value the same way the blockchain hashes records.
type Data struct {
	x string
}

// Hash implements the merkle Hashable interface.
func (d Data) Hash() (string, error) {
	return signature.Hash(d.x), nil
}

// Equals implements the merkle Hashable interface.
func (d Data) Equals(other Data) bool {
	return d.x == other.x
}

func values(xs ...string) []Data {
	data := make([]Data, len(xs))
	for i, x := range xs {
		data[i] = Data{x: x}
	}
	return data
}

// =============================================================================

var table = []struct {
	name string
	data []Data
	root string
}{
	{
		name: "one",
		data: values("a"),
		root: "ef4a92c18cfa23b053eead859e681af894907517ad62e254dfb94a6eac665b82",
	},
	{
		name: "two",
		data: values("a", "b"),
		root: "45b86a6d93c00f23977db51b6acae905efc1027a054b699f6452ef0eb86f9cf7",
	},
	{
		name: "three",
		data: values("a", "b", "c"),
		root: "ab2a9aa202d5de098173c852a81d49a625bee64279d3c34788f098518beaf360",
	},
	{
		name: "six",
		data: values("a", "b", "c", "d", "e", "f"),
		root: "81c432d05ed561017adcd1bfb13742e8607794446fa3968b78a8158a058aca22",
	},
}

func Test_NewTree(t *testing.T) {
	t.Log("Given the need to compute merkle roots.")
	{
		for testID, tst := range table {
			t.Logf("\tTest %d:\tWhen handling %s value(s).", testID, tst.name)
			{
				f := func(t *testing.T) {
					tree, err := merkle.NewTree(tst.data)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct the tree: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to construct the tree.", success, testID)

					if tree.RootHex() != tst.root {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, tree.RootHex())
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.root)
						t.Fatalf("\t%s\tTest %d:\tShould get back the known root.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the known root.", success, testID)

					again, err := merkle.NewTree(tst.data)
					if err != nil || again.RootHex() != tree.RootHex() {
						t.Fatalf("\t%s\tTest %d:\tShould get the same root on repeated calls.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the same root on repeated calls.", success, testID)

					if got := len(tree.Values()); got != len(tst.data) {
						t.Fatalf("\t%s\tTest %d:\tShould get back %d values, got %d.", failed, testID, len(tst.data), got)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the original values.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_NoContent(t *testing.T) {
	t.Log("Given the need to reject an empty set of values.")
	{
		_, err := merkle.NewTree([]Data{})
		if !errors.Is(err, merkle.ErrNoContent) {
			t.Fatalf("\t%s\tShould get ErrNoContent, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould get ErrNoContent.", success)
	}
}

func Test_Duplicates(t *testing.T) {
	t.Log("Given the need to keep duplicate values.")
	{
		tree, err := merkle.NewTree(values("a", "a"))
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the tree: %v", failed, err)
		}

		if got := len(tree.Values()); got != 2 {
			t.Fatalf("\t%s\tShould get back both values, got %d.", failed, got)
		}
		t.Logf("\t%s\tShould get back both values.", success)

		single, err := merkle.NewTree(values("a"))
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the tree: %v", failed, err)
		}

		if single.RootHex() != tree.RootHex() {
			t.Fatalf("\t%s\tShould pair a single value with its own duplicate.", failed)
		}
		t.Logf("\t%s\tShould pair a single value with its own duplicate.", success)
	}
}

func Test_Verify(t *testing.T) {
	t.Log("Given the need to detect a tampered tree.")
	{
		for testID, tst := range table {
			tree, err := merkle.NewTree(tst.data)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the tree: %v", failed, testID, err)
			}

			if err := tree.Verify(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould verify the tree: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould verify the tree.", success, testID)

			for _, d := range tst.data {
				if err := tree.VerifyData(d); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould verify data %q: %v", failed, testID, d.x, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould verify every piece of data.", success, testID)

			tree.Root.Hash = "bad"
			tree.MerkleRoot = "bad"
			if err := tree.Verify(); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould fail to verify a tampered tree.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould fail to verify a tampered tree.", success, testID)
		}
	}
}

func Test_Proof(t *testing.T) {
	t.Log("Given the need to prove inclusion of data.")
	{
		for testID, tst := range table {
			tree, err := merkle.NewTree(tst.data)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the tree: %v", failed, testID, err)
			}

			for _, d := range tst.data {
				proof, order, err := tree.Proof(d)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould get a proof for %q: %v", failed, testID, d.x, err)
				}

				hash, _ := d.Hash()
				if err := tree.VerifyProof(hash, proof, order); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould verify the proof for %q: %v", failed, testID, d.x, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould verify the proof for every piece of data.", success, testID)

			if _, _, err := tree.Proof(Data{x: "missing"}); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould not get a proof for missing data.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not get a proof for missing data.", success, testID)
		}
	}
}

func Test_HashStrategy(t *testing.T) {
	t.Log("Given the need to change the way child hashes are combined.")
	{
		strategy := func(data string) string {
			h := sha256.Sum256([]byte(data))
			return hex.EncodeToString(h[:])
		}

		data := values("a", "b", "c")

		def, err := merkle.NewTree(data)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the tree: %v", failed, err)
		}

		tree, err := merkle.NewTree(data, merkle.WithHashStrategy[Data](strategy))
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the tree: %v", failed, err)
		}

		if tree.RootHex() == def.RootHex() {
			t.Fatalf("\t%s\tShould get a different root with a different strategy.", failed)
		}
		t.Logf("\t%s\tShould get a different root with a different strategy.", success)

		if err := tree.Rebuild(); err != nil {
			t.Fatalf("\t%s\tShould be able to rebuild the tree: %v", failed, err)
		}

		if err := tree.Verify(); err != nil {
			t.Fatalf("\t%s\tShould verify the rebuilt tree: %v", failed, err)
		}
		t.Logf("\t%s\tShould verify the rebuilt tree.", success)
	}
}
