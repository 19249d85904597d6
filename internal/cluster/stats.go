package cluster

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ludo-technologies/sourcerer/domain"
)

// logWriter writes indented lines and keeps the first write error
type logWriter struct {
	w      io.Writer
	indent int
	line   strings.Builder
	err    error
}

func (l *logWriter) fragment(s string) {
	l.line.WriteString(s)
}

func (l *logWriter) newLine() {
	if l.err == nil {
		text := l.line.String()
		if text != "" {
			text = strings.Repeat("  ", l.indent) + text
		}
		_, l.err = io.WriteString(l.w, text+"\n")
	}
	l.line.Reset()
}

func (l *logWriter) write(format string, args ...any) {
	l.fragment(fmt.Sprintf(format, args...))
	l.newLine()
}

func (l *logWriter) writeAndIndent(format string, args ...any) {
	l.write(format, args...)
	l.indent++
}

func (l *logWriter) unindent() {
	if l.indent > 0 {
		l.indent--
	}
}

// header writes the 1..n column ruler followed by title
func (l *logWriter) header(n int, title string) {
	for i := 1; i <= n; i++ {
		l.fragment(fmt.Sprint(i % 10))
	}
	l.fragment(" " + title)
	l.newLine()
}

// row writes one '*' column per jar declaring n, then suffix
func (l *logWriter) row(n FqnNode, jars []*Jar, suffix string) {
	for _, j := range jars {
		if n.Data().Contains(j) {
			l.fragment("*")
		} else {
			l.fragment(" ")
		}
	}
	l.fragment(" " + n.Fqn() + suffix)
	l.newLine()
}

// jarClusters maps every jar of the collection to its clusters, in
// collection order, and returns the jars sorted by name.
func (c *Collection) jarClusters() ([]*Jar, map[*Jar][]*Cluster) {
	byJar := make(map[*Jar][]*Cluster)
	var jars []*Jar
	for _, cl := range c.clusters {
		for _, j := range cl.jars.Jars() {
			if _, ok := byJar[j]; !ok {
				jars = append(jars, j)
			}
			byJar[j] = append(byJar[j], cl)
		}
	}
	return sortJars(jars), byJar
}

// overlapping returns every jar sharing a cluster with one of clusters
func overlapping(clusters []*Cluster) []*Jar {
	seen := make(map[*Jar]struct{})
	var out []*Jar
	for _, cl := range clusters {
		for _, j := range cl.jars.Jars() {
			if _, ok := seen[j]; !ok {
				seen[j] = struct{}{}
				out = append(out, j)
			}
		}
	}
	return sortJars(out)
}

// bySizeDescending orders clusters by core size, largest first
func (c *Collection) bySizeDescending() []*Cluster {
	sorted := append([]*Cluster(nil), c.clusters...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].core) > len(sorted[j].core)
	})
	return sorted
}

// Report classifies the jars and clusters of the collection
func (c *Collection) Report() *domain.ClusterReport {
	jars, byJar := c.jarClusters()
	r := &domain.ClusterReport{JarCount: len(jars), ClusterCount: len(c.clusters)}
	for _, cl := range c.clusters {
		if cl.jars.Len() == 1 {
			r.SingleJarClusters++
		}
	}
	r.MultiJarClusters = r.ClusterCount - r.SingleJarClusters

	for _, j := range jars {
		clusters := byJar[j]
		if len(clusters) == 1 {
			r.SingleClusterJars++
			continue
		}
		var others []*Jar
		for _, o := range overlapping(clusters) {
			if o != j {
				others = append(others, o)
			}
		}
		r.Fragmented = append(r.Fragmented, domain.FragmentedJar{
			Jar:             jarRefs([]*Jar{j})[0],
			Clusters:        len(clusters),
			OverlappingJars: jarRefs(others),
		})
	}
	r.MultiClusterJars = r.JarCount - r.SingleClusterJars

	for _, cl := range c.bySizeDescending() {
		r.Clusters = append(r.Clusters, cl.Summary())
	}
	return r
}

// PrintStatistics writes the jar log, describing how each jar is split
// across clusters, followed by the cluster log, describing each cluster
// from the largest core down.
func (c *Collection) PrintStatistics(w io.Writer) error {
	l := &logWriter{w: w}
	c.writeJarLog(l)
	l.newLine()
	c.writeClusterLog(l)
	return l.err
}

func (c *Collection) writeJarLog(l *logWriter) {
	r := c.Report()
	jars, byJar := c.jarClusters()

	l.write("%d jars", r.JarCount)
	l.write("%d clusters", r.ClusterCount)
	l.write("%d jars covered by single cluster", r.SingleClusterJars)
	l.write("%d clusters matching a single jar", r.SingleJarClusters)
	l.write("%d jars covered by multiple clusters", r.MultiClusterJars)
	l.write("%d clusters matching multiple jars", r.MultiJarClusters)

	for _, jar := range jars {
		clusters := byJar[jar]
		if len(clusters) < 2 {
			continue
		}
		l.newLine()
		own := make(map[FqnNode]struct{}, len(jar.fqns))
		for _, n := range jar.fqns {
			own[n] = struct{}{}
		}
		others := overlapping(clusters)

		l.writeAndIndent("%s fragmented into %d clusters", jar.Label(), len(clusters))
		l.write("FQNs from this jar appear in %d other jars", len(others)-1)
		l.writeAndIndent("Listing jars with overlap")
		for i, o := range others {
			marker := ""
			if o == jar {
				marker = " <--"
			}
			l.write("%d: %s: %s%s", i+1, o.Label(), o.Hash, marker)
		}
		l.unindent()
		l.unindent()

		for i, cl := range clusters {
			l.write("Cluster %d, from %d jars", i+1, cl.jars.Len())
			l.header(len(others), "Core FQNs")
			l.ownRows(cl.core, own, others, "core")
			if len(cl.extra) > 0 {
				l.header(len(others), "Extra FQNs")
				l.ownRows(cl.extra, own, others, "extra")
			}
		}
	}
}

// ownRows writes a row for each node the jar declares and a count of the
// rest.
func (l *logWriter) ownRows(nodes []FqnNode, own map[FqnNode]struct{}, jars []*Jar, kind string) {
	skipped := 0
	for _, n := range nodes {
		if _, ok := own[n]; !ok {
			skipped++
			continue
		}
		l.row(n, jars, "")
	}
	if skipped > 0 {
		l.fragment(strings.Repeat(" ", len(jars)))
		l.fragment(fmt.Sprintf(" %d %s FQNs in cluster not in this jar", skipped, kind))
		l.newLine()
	}
}

func (c *Collection) writeClusterLog(l *logWriter) {
	r := c.Report()
	l.write("%d clusters", r.ClusterCount)
	l.write("%d clusters matching a single jar", r.SingleJarClusters)
	l.write("%d clusters matching multiple jars", r.MultiJarClusters)

	for _, cl := range c.bySizeDescending() {
		l.newLine()
		l.writeAndIndent("Cluster of %d jars", cl.jars.Len())
		jars := cl.SortedJars()

		l.writeAndIndent("Listing jars in cluster")
		for i, j := range jars {
			l.write("%d: %s: %s", i+1, j.Label(), j.Hash)
		}
		l.unindent()

		l.header(len(jars), "Core FQNs")
		for _, n := range cl.core {
			l.row(n, jars, "")
		}
		if len(cl.extra) > 0 {
			l.header(len(jars), "Extra FQNs")
			for _, n := range cl.extra {
				count := 0
				for _, j := range jars {
					if n.Data().Contains(j) {
						count++
					}
				}
				l.row(n, jars, " "+formatPercent(count, len(jars)))
			}
		}
		l.unindent()
	}
}

func formatPercent(n, total int) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(n)*100/float64(total))
}
