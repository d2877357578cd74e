// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net"
	"net/http"
	"slices"
	"strings"
)

const wildcard = "*"

// filterInvalidHosts rejects requests whose Host header names a host that
// isn't allowed. Requests addressed by IP are always served.
func filterInvalidHosts(handler http.Handler, allowed []string) http.Handler {
	if slices.Contains(allowed, wildcard) {
		return handler
	}

	hosts := make(map[string]struct{}, len(allowed))
	for _, host := range allowed {
		hosts[strings.ToLower(host)] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Host == "" {
			handler.ServeHTTP(w, r)
			return
		}

		host, _, err := net.SplitHostPort(r.Host)
		if err != nil {
			host = r.Host
		}
		if net.ParseIP(host) != nil {
			handler.ServeHTTP(w, r)
			return
		}
		if _, ok := hosts[strings.ToLower(host)]; !ok {
			http.Error(w, "invalid host specified", http.StatusForbidden)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
