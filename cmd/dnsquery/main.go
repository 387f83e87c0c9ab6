// Command dnsquery sends a single DNS query over UDP (falling back to TCP
// when the response is truncated) and prints the answer section.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kestreldns/dnscore/internal/dns"
	"github.com/kestreldns/dnscore/internal/logging"
)

func main() {
	var (
		server   = flag.String("server", "8.8.8.8:53", "DNS server HOST:PORT")
		name     = flag.String("name", "example.com", "Query name")
		qtype    = flag.String("qtype", "A", "Query type (mnemonic or TYPE<n>)")
		timeout  = flag.Duration("timeout", 2*time.Second, "Timeout")
		quiet    = flag.Bool("quiet", false, "Suppress output (exit status indicates success)")
		logLevel = flag.String("log-level", "WARN", "Log level (DEBUG, INFO, WARN, ERROR)")
	)
	flag.Parse()

	logger := logging.Configure(logging.Config{Level: *logLevel})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resp, err := run(ctx, logger, *server, *name, *qtype)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "dnsquery error: %v\n", err)
		}
		os.Exit(1)
	}
	if *quiet {
		return
	}

	fmt.Printf("id=%d rcode=%d answers=%d authorities=%d additionals=%d\n",
		resp.Header.ID,
		dns.RCodeFromFlags(resp.Header.Flags),
		len(resp.Answers),
		len(resp.Authorities),
		len(resp.Additionals),
	)

	rows := make([]string, 0, len(resp.Answers))
	for _, rr := range resp.Answers {
		line, err := dns.FormatMasterRR(rr)
		if err != nil {
			line = fmt.Sprintf("%s (unformattable: %v)", rr.Header().Name.String(), err)
		}
		rows = append(rows, line)
	}
	sort.Strings(rows)
	for _, s := range rows {
		fmt.Println(s)
	}
}

func run(ctx context.Context, logger *slog.Logger, server, name, qtypeTok string) (dns.Message, error) {
	if strings.TrimSpace(name) == "" {
		return dns.Message{}, fmt.Errorf("name required")
	}

	qtype, err := dns.ParseTypeToken(qtypeTok)
	if err != nil {
		return dns.Message{}, err
	}
	qname, err := dns.ParseName(name, dns.Root)
	if err != nil {
		return dns.Message{}, err
	}

	req := dns.Message{
		Header:    dns.Header{ID: 0x1234, Flags: dns.RDFlag},
		Questions: []dns.Question{{Name: qname, Type: qtype, Class: dns.ClassIN}},
	}

	logger.DebugContext(ctx, "querying over udp", "server", server, "name", name, "qtype", qtypeTok)
	resp, err := queryUDP(ctx, server, req)
	if err != nil {
		return dns.Message{}, err
	}
	if resp.Header.Flags&dns.TCFlag != 0 {
		logger.InfoContext(ctx, "udp response truncated, retrying over tcp", "server", server)
		return queryTCP(ctx, server, req)
	}
	return resp, nil
}

func queryUDP(ctx context.Context, server string, req dns.Message) (dns.Message, error) {
	wire, err := req.Marshal(true)
	if err != nil {
		return dns.Message{}, err
	}

	addr, err := net.ResolveUDPAddr("udp", server)
	if err != nil {
		return dns.Message{}, err
	}
	c, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return dns.Message{}, err
	}
	defer c.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.SetDeadline(deadline)
	}
	if _, err := c.Write(wire); err != nil {
		return dns.Message{}, err
	}

	buf := make([]byte, dns.DefaultUDPPayloadSize+4096)
	n, err := c.Read(buf)
	if err != nil {
		return dns.Message{}, err
	}
	return dns.Unmarshal(buf[:n])
}

func queryTCP(ctx context.Context, server string, req dns.Message) (dns.Message, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", server)
	if err != nil {
		return dns.Message{}, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	wire, err := req.Marshal(true)
	if err != nil {
		return dns.Message{}, err
	}

	lenBuf := []byte{byte(len(wire) >> 8), byte(len(wire))}
	if _, err := conn.Write(lenBuf); err != nil {
		return dns.Message{}, err
	}
	if _, err := conn.Write(wire); err != nil {
		return dns.Message{}, err
	}

	var respLenBuf [2]byte
	if _, err := readFull(conn, respLenBuf[:]); err != nil {
		return dns.Message{}, err
	}
	respLen := int(respLenBuf[0])<<8 | int(respLenBuf[1])
	respBuf := make([]byte, respLen)
	if _, err := readFull(conn, respBuf); err != nil {
		return dns.Message{}, err
	}
	return dns.Unmarshal(respBuf)
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
