package cluster

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/sourcerer/internal/fqn"
	"github.com/ludo-technologies/sourcerer/internal/listing"
)

// FqnNode is a node of the jar trie. Its payload is the set of jars that
// declare the name.
type FqnNode = fqn.Node[*JarSet]

// Jar is one archive and the FQNs it declares
type Jar struct {
	Hash    string
	Name    string
	Version string

	index int
	fqns  []FqnNode
}

// Fqns returns the nodes of every FQN the jar declares, in listing order
func (j *Jar) Fqns() []FqnNode {
	return j.fqns
}

// FqnStrings returns the dotted names the jar declares
func (j *Jar) FqnStrings() []string {
	out := make([]string, len(j.fqns))
	for i, n := range j.fqns {
		out[i] = n.Fqn()
	}
	return out
}

// Label renders "name (version)", or just the name when unversioned
func (j *Jar) Label() string {
	if j.Version == "" {
		return j.Name
	}
	return j.Name + " (" + j.Version + ")"
}

func (j *Jar) String() string {
	return j.Label() + ": " + j.Hash
}

// JarSet is an immutable, interned set of jars. Two nodes declared by
// exactly the same jars share the same *JarSet.
type JarSet struct {
	jars []*Jar
	key  string
}

// Len returns the number of jars. A nil set is empty.
func (s *JarSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.jars)
}

// Jars returns the members ordered by their position in the collection
func (s *JarSet) Jars() []*Jar {
	if s == nil {
		return nil
	}
	return s.jars
}

// Contains reports whether j is a member
func (s *JarSet) Contains(j *Jar) bool {
	if s == nil {
		return false
	}
	i := sort.Search(len(s.jars), func(i int) bool { return s.jars[i].index >= j.index })
	return i < len(s.jars) && s.jars[i] == j
}

// IsSubset reports whether every member of s is in other
func (s *JarSet) IsSubset(other *JarSet) bool {
	return s.IntersectionSize(other) == s.Len()
}

// IntersectionSize counts the jars in both sets
func (s *JarSet) IntersectionSize(other *JarSet) int {
	a, b := s.Jars(), other.Jars()
	n, i, j := 0, 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			n++
			i++
			j++
		case a[i].index < b[j].index:
			i++
		default:
			j++
		}
	}
	return n
}

// JarCollection holds every jar of a listing and the trie of the FQNs they
// declare.
type JarCollection struct {
	trie   *fqn.Trie[*JarSet]
	jars   []*Jar
	byHash map[string]*Jar
	sets   map[string]*JarSet
}

// NewJarCollection creates an empty collection
func NewJarCollection() *JarCollection {
	return &JarCollection{
		trie:   fqn.New[*JarSet](),
		byHash: make(map[string]*Jar),
		sets:   make(map[string]*JarSet),
	}
}

// AddJar registers a jar and every FQN it declares. Hashes must be unique.
func (c *JarCollection) AddJar(hash, name, version string, fqns []string) (*Jar, error) {
	if _, ok := c.byHash[hash]; ok {
		return nil, fmt.Errorf("duplicate jar hash %s", hash)
	}
	jar := &Jar{Hash: hash, Name: name, Version: version, index: len(c.jars)}
	c.jars = append(c.jars, jar)
	c.byHash[hash] = jar

	seen := make(map[int]struct{}, len(fqns))
	for _, name := range fqns {
		node := c.trie.Intern(name)
		if _, dup := seen[node.Index()]; dup {
			continue
		}
		seen[node.Index()] = struct{}{}
		jar.fqns = append(jar.fqns, node)
		node.SetData(c.with(node.Data(), jar))
	}
	return jar, nil
}

// with returns the interned set s plus jar. jar is always the newest member.
func (c *JarCollection) with(s *JarSet, jar *Jar) *JarSet {
	jars := make([]*Jar, 0, s.Len()+1)
	jars = append(jars, s.Jars()...)
	jars = append(jars, jar)
	return c.intern(jars)
}

func (c *JarCollection) intern(jars []*Jar) *JarSet {
	if len(jars) == 0 {
		return nil
	}
	hashes := make([]string, len(jars))
	for i, j := range jars {
		hashes[i] = j.Hash
	}
	key := strings.Join(hashes, " ")
	if s, ok := c.sets[key]; ok {
		return s
	}
	s := &JarSet{jars: jars, key: key}
	c.sets[key] = s
	return s
}

// SetOf returns the interned set holding jars
func (c *JarCollection) SetOf(jars []*Jar) *JarSet {
	sorted := append([]*Jar(nil), jars...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].index < sorted[j].index })
	uniq := sorted[:0]
	for i, j := range sorted {
		if i == 0 || j != sorted[i-1] {
			uniq = append(uniq, j)
		}
	}
	return c.intern(uniq)
}

// Jar looks a jar up by hash
func (c *JarCollection) Jar(hash string) (*Jar, bool) {
	j, ok := c.byHash[hash]
	return j, ok
}

// Jars returns the jars in listing order
func (c *JarCollection) Jars() []*Jar {
	return c.jars
}

// Len returns the number of jars
func (c *JarCollection) Len() int {
	return len(c.jars)
}

// Trie returns the FQN trie of the collection
func (c *JarCollection) Trie() *fqn.Trie[*JarSet] {
	return c.trie
}

// Root returns the root of the FQN trie
func (c *JarCollection) Root() FqnNode {
	return c.trie.Root()
}

// TrieStats counts the nodes of the jar trie
type TrieStats struct {
	Nodes    int
	Fqns     int
	Packages int
}

// Stats counts the trie nodes and how many of them some jar declares
func (c *JarCollection) Stats() TrieStats {
	var st TrieStats
	c.Root().PostOrder().Each(func(n FqnNode) bool {
		st.Nodes++
		if n.Data().Len() > 0 {
			st.Fqns++
		}
		return true
	})
	st.Packages = st.Nodes - st.Fqns
	return st
}

// Save writes the collection as a jar listing
func (c *JarCollection) Save(w io.Writer) error {
	lw := listing.NewWriter(w)
	for _, j := range c.jars {
		if err := lw.WriteJar(listing.JarRecord{Hash: j.Hash, Name: j.Name, Version: j.Version, Fqns: j.FqnStrings()}); err != nil {
			return err
		}
	}
	return lw.Flush()
}

// LoadJarCollection reads a jar listing. Duplicate hashes are logged and
// skipped.
func LoadJarCollection(ctx context.Context, r io.Reader, opts listing.Options) (*JarCollection, listing.Stats, error) {
	log := opts.Logger
	if log == nil {
		log = discardLogger()
	}
	log.Info("Loading jar collection...")

	c := NewJarCollection()
	stats, err := listing.ReadJarListing(ctx, r, opts, func(rec listing.JarRecord) error {
		if _, err := c.AddJar(rec.Hash, rec.Name, rec.Version, rec.Fqns); err != nil {
			log.WithField("jar", rec.Name).Warn(err)
			return listing.ErrSkip
		}
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	st := c.Stats()
	log.Infof("  Collection contains %d jars", c.Len())
	log.Infof("  Suffix tree contains %d nodes", st.Nodes)
	log.Infof("  Suffix tree contains %d leaves (FQNs)", st.Fqns)
	log.Infof("  Suffix tree contains %d internal nodes (packages)", st.Packages)
	return c, stats, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
