package config

// DefaultConfigTOML is written by `sourcerer init`. Every setting is
// commented out, so the file starts out equivalent to DefaultConfig.
const DefaultConfigTOML = `# sourcerer configuration
#
# Values shown are the built-in defaults. Settings can also be overridden
# with SOURCERER_<SECTION>_<KEY> environment variables, e.g.
# SOURCERER_FINGERPRINT_MINIMUM_JACCARD_INDEX=0.8

[cloning]
# FQNs with fewer dots than this are only trusted with MEDIUM confidence
# minimum_fqn_dots = 3
# Member names found in more files than this are dropped from fingerprints
# popular_name_limit = 1000

[fingerprint]
# Jaccard index two fingerprints need to match
# minimum_jaccard_index = 0.75
# Types with fewer members (name + fields + methods) are ignored
# minimum_fingerprint_size = 5
# Only compare types with the same simple name
# require_name_match = true

[directory]
# File names two directories must share
# minimum_match_size = 5
# Share of the smaller directory that must match
# minimum_match_percent = 0.3
# File names occurring this often or more are ignored
# popular_discard = 500

[output]
# text, json, yaml or csv
# format = "text"
# Where reports without an explicit destination are written
# directory = ".sourcerer/reports"

[input]
# Doublestar globs over project names
# include_projects = []
# exclude_projects = []
`
