// Command print-zone parses a master-file (zone-file) and prints its
// records, optionally as RFC 8427 JSON or with a computed ZONEMD digest.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/kestreldns/dnscore/internal/crypto/envelope"
	"github.com/kestreldns/dnscore/internal/dns"
	"github.com/kestreldns/dnscore/internal/dns/dnsjson"
	"github.com/kestreldns/dnscore/internal/dns/zonemd"
	"github.com/kestreldns/dnscore/internal/logging"
)

func main() {
	var (
		originFlag = flag.String("origin", ".", "zone origin")
		ttlFlag    = flag.Int("default-ttl", 3600, "default TTL for records omitting one")
		asJSON     = flag.Bool("json", false, "print records as RFC 8427 JSON")
		digest     = flag.Bool("zonemd", false, "compute and print a ZONEMD digest instead of listing records")
		logLevel   = flag.String("log-level", "WARN", "Log level (DEBUG, INFO, WARN, ERROR)")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: print-zone [-origin NAME] [-json] [-zonemd] path/to/zonefile\n")
		os.Exit(2)
	}

	logger := logging.Configure(logging.Config{Level: *logLevel})

	body, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read zone file: %v\n", err)
		os.Exit(1)
	}

	origin, err := dns.ParseName(*originFlag, dns.Root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid origin: %v\n", err)
		os.Exit(1)
	}

	masterRecs, err := dns.ParseMasterFile(string(body), origin, int32(*ttlFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse zone: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("parsed zone file", "path", flag.Arg(0), "origin", origin.String(), "records", len(masterRecs))

	records := make([]dns.RR, 0, len(masterRecs))
	for _, rec := range masterRecs {
		rr, err := dns.DecodeMasterRR(origin, rec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to decode record: %v\n", err)
			os.Exit(1)
		}
		records = append(records, rr)
	}

	if *digest {
		logger.Info("computing zone digest", "origin", origin.String(), "algorithm", "SHA384")
		printDigest(origin, records)
		return
	}
	if *asJSON {
		printJSON(records)
		return
	}
	printText(records)
}

func printText(records []dns.RR) {
	for _, rr := range records {
		line, err := dns.FormatMasterRR(rr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to format record: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(line)
	}
}

func printJSON(records []dns.RR) {
	docs := make([]dnsjson.Record, len(records))
	for i, rr := range records {
		docs[i] = dnsjson.Record{RR: rr}
	}
	out, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func printDigest(origin dns.DomainName, records []dns.RR) {
	sum, err := zonemd.Digest(envelope.Default, origin, records, dns.ZonemdHashSHA384)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to compute digest: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s SHA384 %s\n", origin.String(), dns.EncodeBase16(sum))
}
