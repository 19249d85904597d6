package cluster

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ludo-technologies/sourcerer/domain"
	"github.com/ludo-technologies/sourcerer/internal/listing"
)

const maxLineSize = 64 * 1024 * 1024

// Collection is an ordered list of clusters
type Collection struct {
	clusters []*Cluster
}

// NewCollection numbers clusters in order and wraps them
func NewCollection(clusters []*Cluster) *Collection {
	for i, c := range clusters {
		c.index = i + 1
	}
	return &Collection{clusters: clusters}
}

// Clusters returns the clusters in collection order
func (c *Collection) Clusters() []*Cluster {
	return c.clusters
}

// Len returns the number of clusters
func (c *Collection) Len() int {
	return len(c.clusters)
}

// Save writes one cluster per line as
// "jarCount hash... coreCount fqn... extraCount fqn...".
func (c *Collection) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, cl := range c.clusters {
		fields := []string{strconv.Itoa(cl.jars.Len())}
		for _, j := range cl.jars.Jars() {
			fields = append(fields, j.Hash)
		}
		fields = append(fields, strconv.Itoa(len(cl.core)))
		for _, n := range cl.core {
			fields = append(fields, n.Fqn())
		}
		fields = append(fields, strconv.Itoa(len(cl.extra)))
		for _, n := range cl.extra {
			fields = append(fields, n.Fqn())
		}
		if _, err := bw.WriteString(strings.Join(fields, " ") + "\n"); err != nil {
			return fmt.Errorf("failed to write cluster collection: %w", err)
		}
	}
	return bw.Flush()
}

// LoadCollection reads a collection written by Save, resolving jar hashes
// and FQNs through jars. Unknown hashes are logged and dropped; a truncated
// line is a parse error.
func LoadCollection(ctx context.Context, r io.Reader, jars *JarCollection, opts listing.Options) (*Collection, error) {
	log := opts.Logger
	if log == nil {
		log = discardLogger()
	}
	log.Info("Loading cluster collection...")

	var clusters []*Cluster
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cl, err := parseCluster(strings.Fields(line), jars, log.WithField("line", lineNo))
		if err != nil {
			return nil, domain.NewParseError(opts.Source, fmt.Errorf("line %d: %w", lineNo, err))
		}
		clusters = append(clusters, cl)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cluster collection: %w", err)
	}

	log.Infof("  %d clusters loaded", len(clusters))
	return NewCollection(clusters), nil
}

// fieldReader consumes the fields of one line in order
type fieldReader struct {
	fields []string
	pos    int
}

func (r *fieldReader) next(what string) (string, error) {
	if r.pos >= len(r.fields) {
		return "", fmt.Errorf("missing %s", what)
	}
	r.pos++
	return r.fields[r.pos-1], nil
}

func (r *fieldReader) count(what string) (int, error) {
	s, err := r.next(what + " count")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s count %q", what, s)
	}
	return n, nil
}

func (r *fieldReader) names(what string) ([]string, error) {
	n, err := r.count(what)
	if err != nil {
		return nil, err
	}
	if n > len(r.fields)-r.pos {
		return nil, fmt.Errorf("expected %d %s names, found %d", n, what, len(r.fields)-r.pos)
	}
	out := make([]string, n)
	for i := range out {
		if out[i], err = r.next(what); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parseCluster(fields []string, jars *JarCollection, log logrus.FieldLogger) (*Cluster, error) {
	fr := &fieldReader{fields: fields}
	hashes, err := fr.names("jar")
	if err != nil {
		return nil, err
	}
	core, err := fr.names("core fqn")
	if err != nil {
		return nil, err
	}
	extra, err := fr.names("extra fqn")
	if err != nil {
		return nil, err
	}
	if fr.pos != len(fields) {
		return nil, fmt.Errorf("%d trailing fields", len(fields)-fr.pos)
	}

	members := make([]*Jar, 0, len(hashes))
	for _, h := range hashes {
		j, ok := jars.Jar(h)
		if !ok {
			log.Warnf("Unable to locate jar: %s", h)
			continue
		}
		members = append(members, j)
	}

	cl := &Cluster{jars: jars.SetOf(members)}
	for _, name := range core {
		cl.core = append(cl.core, jars.trie.Intern(name))
	}
	for _, name := range extra {
		cl.extra = append(cl.extra, jars.trie.Intern(name))
	}
	return cl, nil
}
