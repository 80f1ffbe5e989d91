package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/mced-project/mced/accountant"
)

// ingestLoop is the stub event source spec.md §1 scopes out of the
// core: parsing raw machine-check records from firmware/kernel. It
// reads already-decoded events, one per line, as a comma-separated
// "addr,statusflags,bank,socket,channel,dimm,cpu,extcpu" record. A real
// build would replace this with an mcelog socket or netlink reader;
// the Accountant's Handle contract is identical either way.
func ingestLoop(r io.Reader, stop <-chan struct{}, handle func(accountant.Event)) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case <-stop:
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			ev, err := parseEventLine(line)
			if err != nil {
				glog.Warningf("mced: skipping malformed event %q: %v", line, err)
				continue
			}
			handle(ev)
		}
	}
}

func parseEventLine(line string) (accountant.Event, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) < 6 {
		return accountant.Event{}, errShortRecord
	}
	addr, err := strconv.ParseUint(fields[0], 0, 64)
	if err != nil {
		return accountant.Event{}, err
	}
	flags, err := strconv.ParseUint(fields[1], 0, 64)
	if err != nil {
		return accountant.Event{}, err
	}
	bank, err := strconv.Atoi(fields[2])
	if err != nil {
		return accountant.Event{}, err
	}
	socket, err := strconv.Atoi(fields[3])
	if err != nil {
		return accountant.Event{}, err
	}
	channel, err := strconv.Atoi(fields[4])
	if err != nil {
		return accountant.Event{}, err
	}
	dimm, err := strconv.Atoi(fields[5])
	if err != nil {
		return accountant.Event{}, err
	}
	ev := accountant.Event{
		Addr:        addr,
		StatusFlags: accountant.StatusFlags(flags),
		Time:        time.Now(),
		Bank:        bank,
		SocketID:    socket,
		Channel:     channel,
		Dimm:        dimm,
	}
	if len(fields) >= 7 {
		if cpu, err := strconv.Atoi(fields[6]); err == nil {
			ev.CPU = cpu
		}
	}
	if len(fields) >= 8 {
		if extCPU, err := strconv.Atoi(fields[7]); err == nil {
			ev.ExtCPU = extCPU
		}
	}
	return ev, nil
}

type shortRecordError struct{}

func (shortRecordError) Error() string { return "event record has fewer than 6 fields" }

var errShortRecord = shortRecordError{}
