// Copyright 2017 Cameron Bergoon
// https://github.com/cbergoon/merkletree
// Licensed under the MIT License, see LICENCE file for details.
// This code has been cleaned up, refactored, and turned into generics.

// Package merkle provides an implementation of a merkle tree for committing a
// block to its transactions.
//
// Nodes are reduced as a queue: the two nodes at the front are combined and
// the parent is pushed to the back until a single node is left. For a power
// of two number of leafs this is the classic level by level tree. For any
// other count the later levels are not padded, the leftover node simply waits
// at the back of the queue for its partner.
package merkle

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/blocksandbox/foundation/blockchain/signature"
)

// Hashable represents the behavior concrete data must exhibit to be used in
// the merkle tree.
type Hashable[T any] interface {
	Hash() (string, error)
	Equals(other T) bool
}

// ErrNoContent is returned when a tree is requested for an empty set of values.
var ErrNoContent = errors.New("cannot construct tree with no content")

// =============================================================================

// Tree represents a merkle tree that uses data of some type T that exhibits the
// behavior defined by the Hashable constraint.
type Tree[T Hashable[T]] struct {
	Root         *Node[T]
	Leafs        []*Node[T]
	MerkleRoot   string
	hashStrategy func(data string) string
}

// WithHashStrategy is used to change the default hash strategy used to
// combine two child hashes when constructing a new tree.
func WithHashStrategy[T Hashable[T]](hashStrategy func(data string) string) func(t *Tree[T]) {
	return func(t *Tree[T]) {
		t.hashStrategy = hashStrategy
	}
}

// NewTree constructs a new merkle tree that uses data of some type T that
// exhibits the behavior defined by the Hashable interface.
func NewTree[T Hashable[T]](values []T, options ...func(t *Tree[T])) (*Tree[T], error) {
	t := Tree[T]{
		hashStrategy: defaultHashStrategy,
	}

	for _, option := range options {
		option(&t)
	}

	if err := t.Generate(values); err != nil {
		return nil, err
	}

	return &t, nil
}

// Generate constructs the leafs and nodes of the tree from the specified
// data. If the tree has been generated previously, the tree is re-generated
// from scratch.
func (t *Tree[T]) Generate(values []T) error {
	if len(values) == 0 {
		return ErrNoContent
	}

	leafs := make([]*Node[T], 0, len(values)+1)
	for _, value := range values {
		hash, err := value.Hash()
		if err != nil {
			return err
		}

		leafs = append(leafs, &Node[T]{
			Hash:  hash,
			Value: value,
			leaf:  true,
			Tree:  t,
		})
	}

	if len(leafs)%2 == 1 {
		last := leafs[len(leafs)-1]
		leafs = append(leafs, &Node[T]{
			Hash:  last.Hash,
			Value: last.Value,
			leaf:  true,
			dup:   true,
			Tree:  t,
		})
	}

	root := buildIntermediate(leafs, t)

	t.Root = root
	t.Leafs = leafs
	t.MerkleRoot = root.Hash

	return nil
}

// Rebuild is a helper function that will rebuild the tree reusing only the
// data that it currently holds in the leaves.
func (t *Tree[T]) Rebuild() error {
	return t.Generate(t.Values())
}

// Proof returns the set of hashes and the order of concatenating those
// hashes for proving a value is in the tree.
//
// Hash the value in question and walk the proof. An order of 0 says the
// proof hash is concatenated first, an order of 1 says it comes second.
//
//	h := valueHash
//	for i := range proof {
//		if order[i] == 0 {
//			h = hash(proof[i] + h)
//		} else {
//			h = hash(h + proof[i])
//		}
//	}
//
// The calculated h should match the merkle root.
func (t *Tree[T]) Proof(data T) ([]string, []int64, error) {
	for _, node := range t.Leafs {
		if !node.Value.Equals(data) {
			continue
		}

		var merkleProof []string
		var order []int64
		nodeParent := node.Parent

		for nodeParent != nil {
			if nodeParent.Left == node {
				merkleProof = append(merkleProof, nodeParent.Right.Hash)
				order = append(order, 1) // right leaf, concat second.
			} else {
				merkleProof = append(merkleProof, nodeParent.Left.Hash)
				order = append(order, 0) // left leaf, concat first.
			}
			node = nodeParent
			nodeParent = nodeParent.Parent
		}

		return merkleProof, order, nil
	}

	return nil, nil, errors.New("unable to find data in tree")
}

// VerifyProof walks the proof produced by Proof for the specified hash and
// checks the result against the tree's root.
func (t *Tree[T]) VerifyProof(hash string, proof []string, order []int64) error {
	if len(proof) != len(order) {
		return fmt.Errorf("proof and order mismatch, proof %d, order %d", len(proof), len(order))
	}

	for i := range proof {
		switch order[i] {
		case 0:
			hash = t.hashStrategy(proof[i] + hash)
		default:
			hash = t.hashStrategy(hash + proof[i])
		}
	}

	if hash != t.MerkleRoot {
		return fmt.Errorf("proof does not match merkle root, got %s, exp %s", hash, t.MerkleRoot)
	}

	return nil
}

// Verify validates the hashes at each level of the tree and returns an error
// if the resulting hash at the root of the tree doesn't match the root hash.
func (t *Tree[T]) Verify() error {
	calculatedMerkleRoot, err := t.Root.verify()
	if err != nil {
		return err
	}

	if t.MerkleRoot != calculatedMerkleRoot {
		return errors.New("root hash invalid")
	}

	return nil
}

// VerifyData indicates whether a given piece of data is in the tree and if the
// hashes are valid for that data. The hash of every node on the path from the
// data's leaf to the root is recalculated and compared.
func (t *Tree[T]) VerifyData(data T) error {
	for _, node := range t.Leafs {
		if !node.Value.Equals(data) {
			continue
		}

		currentParent := node.Parent
		for currentParent != nil {
			leftHash, err := currentParent.Left.CalculateHash()
			if err != nil {
				return err
			}

			rightHash, err := currentParent.Right.CalculateHash()
			if err != nil {
				return err
			}

			if t.hashStrategy(leftHash+rightHash) != currentParent.Hash {
				return errors.New("merkle root is not equivalent to the merkle root calculated on the critical path")
			}

			currentParent = currentParent.Parent
		}

		return nil
	}

	return errors.New("unable to find data in tree")
}

// Values returns the values stored in the tree without the duplicate that
// was added to balance an odd number of values.
func (t *Tree[T]) Values() []T {
	values := make([]T, 0, len(t.Leafs))
	for _, node := range t.Leafs {
		if node.dup {
			continue
		}
		values = append(values, node.Value)
	}

	return values
}

// RootHex returns the merkle root hash rendered as hex.
func (t *Tree[T]) RootHex() string {
	return t.MerkleRoot
}

// String returns a string representation of the tree. Only leaf nodes are
// included in the output.
func (t *Tree[T]) String() string {
	s := ""

	for _, l := range t.Leafs {
		s += fmt.Sprint(l)
		s += "\n"
	}

	return s
}

// =============================================================================

// Node represents a node, root, or leaf in the tree. It stores pointers to its
// immediate relationships, a hash, the data if it is a leaf, and other metadata.
type Node[T Hashable[T]] struct {
	Tree   *Tree[T]
	Parent *Node[T]
	Left   *Node[T]
	Right  *Node[T]
	Hash   string
	Value  T
	leaf   bool
	dup    bool
}

// verify walks down the tree until hitting a leaf, calculating the hash at
// each level and returning the resulting hash of the node.
func (n *Node[T]) verify() (string, error) {
	if n.leaf {
		return n.Value.Hash()
	}

	leftHash, err := n.Left.verify()
	if err != nil {
		return "", err
	}

	rightHash, err := n.Right.verify()
	if err != nil {
		return "", err
	}

	return n.Tree.hashStrategy(leftHash + rightHash), nil
}

// CalculateHash is a helper function that calculates the hash of the node.
func (n *Node[T]) CalculateHash() (string, error) {
	if n.leaf {
		return n.Value.Hash()
	}

	return n.Tree.hashStrategy(n.Left.Hash + n.Right.Hash), nil
}

// String returns a string representation of the node.
func (n *Node[T]) String() string {
	return fmt.Sprintf("%t %t %v %v", n.leaf, n.dup, n.Hash, n.Value)
}

// =============================================================================

// defaultHashStrategy hashes the concatenation of two child hashes the same
// way any other record is hashed.
func defaultHashStrategy(data string) string {
	return signature.Hash(data)
}

// buildIntermediate reduces the leafs to a single root node. The two nodes
// at the front of the queue are combined, first then second, and their
// parent is appended to the back of the queue.
func buildIntermediate[T Hashable[T]](leafs []*Node[T], t *Tree[T]) *Node[T] {
	queue := make([]*Node[T], len(leafs))
	copy(queue, leafs)

	for len(queue) > 1 {
		left, right := queue[0], queue[1]
		queue = queue[2:]

		n := Node[T]{
			Left:  left,
			Right: right,
			Hash:  t.hashStrategy(left.Hash + right.Hash),
			Tree:  t,
		}

		left.Parent = &n
		right.Parent = &n

		queue = append(queue, &n)
	}

	return queue[0]
}
