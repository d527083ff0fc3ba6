package discovery

import "github.com/jinzhu/inflection"

// Singular stems expanded into singular + plural probe names.
var probeStems = []string{
	"Customer", "Client", "Contact", "Account", "User",
	"Member", "Lead", "Prospect", "Person",
}

// Fixed names probed after the stem variants: default table names providers
// generate, then customer-list phrasings.
var probeExtras = []string{
	"Table 1", "Table1", "Main Table", "Main", "Sheet1", "Sheet 1",
	"Customer Data", "Client Data", "Contact List", "Customer List",
	"CRM", "Database", "Records", "Entries",
}

// ProbeNames returns the ordered candidate table names tried when a
// provider cannot enumerate tables. Plural forms come first since
// real-world customer tables are usually plural. Order is fixed: it is the
// final tie-break for equally-scored candidates.
func ProbeNames() []string {
	names := make([]string, 0, 2*len(probeStems)+len(probeExtras))
	seen := make(map[string]bool)
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}

	for _, stem := range probeStems {
		add(inflection.Plural(stem))
		add(stem)
	}
	for _, extra := range probeExtras {
		add(extra)
	}
	return names
}
