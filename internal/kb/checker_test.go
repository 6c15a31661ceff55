package kb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ad-freiburg/question-generation/internal/model"
)

// pairServer answers positively only for the listed entity pairs.
func pairServer(t *testing.T, connected ...[2]string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		for _, p := range connected {
			if strings.Contains(query, "wd:"+p[0]+" ") && strings.Contains(query, "wd:"+p[1]+" .") {
				fmt.Fprint(w, `{"resultsize": 1}`)
				return
			}
		}
		fmt.Fprint(w, `{"resultsize": 0}`)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, 1000, 10, nil)
}

func ent(name, id string, cat model.Category) model.EntityMention {
	return model.EntityMention{Name: name, ExternalID: id, Category: cat}
}

func TestConnected_Pair(t *testing.T) {
	checker := NewChecker(pairServer(t, [2]string{"Q90", "Q142"}))

	ok, err := checker.Connected(context.Background(),
		[]model.EntityMention{ent("Paris", "Q90", model.CategoryLocation)},
		[]model.EntityMention{ent("France", "Q142", model.CategoryLocation)})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("linked pair reported unconnected")
	}
}

func TestConnected_Disconnected(t *testing.T) {
	checker := NewChecker(pairServer(t))

	ok, err := checker.Connected(context.Background(),
		[]model.EntityMention{ent("Paris", "Q90", model.CategoryLocation)},
		[]model.EntityMention{ent("Saturn", "Q193", model.CategoryMisc)})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unlinked pair reported connected")
	}
}

func TestConnected_ChainSuffices(t *testing.T) {
	// A-B and B-C connected, A-C not: the graph is still connected.
	checker := NewChecker(pairServer(t,
		[2]string{"Q1", "Q2"}, [2]string{"Q2", "Q3"}))

	ok, err := checker.Connected(context.Background(),
		[]model.EntityMention{
			ent("A", "Q1", model.CategoryMisc),
			ent("B", "Q2", model.CategoryMisc),
		},
		[]model.EntityMention{ent("C", "Q3", model.CategoryMisc)})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("chain-connected graph rejected")
	}
}

func TestConnected_DateAndNumberSkipped(t *testing.T) {
	checker := NewChecker(pairServer(t))

	// Dates and numbers have no knowledge-base identity; a question whose
	// only other mention is a date has nothing to verify.
	ok, err := checker.Connected(context.Background(),
		[]model.EntityMention{ent("1867", "", model.CategoryDate)},
		[]model.EntityMention{ent("Canada", "Q16", model.CategoryLocation)})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("single verifiable entity should pass")
	}
}

func TestConnected_MissingIdentifier(t *testing.T) {
	checker := NewChecker(pairServer(t, [2]string{"Q90", "Q142"}))

	ok, err := checker.Connected(context.Background(),
		[]model.EntityMention{ent("Paris", "", model.CategoryLocation)},
		[]model.EntityMention{ent("France", "Q142", model.CategoryLocation)})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("unverifiable mention accepted")
	}
}

func TestConnected_EndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	checker := NewChecker(NewClient(srv.URL, 5*time.Second, 1000, 10, nil))

	_, err := checker.Connected(context.Background(),
		[]model.EntityMention{ent("Paris", "Q90", model.CategoryLocation)},
		[]model.EntityMention{ent("France", "Q142", model.CategoryLocation)})
	if err == nil {
		t.Error("endpoint failure not surfaced")
	}
}

func TestQueryShape(t *testing.T) {
	q := directQuery("Q90", "Q142")
	if !strings.Contains(q, "PREFIX wd: <http://www.wikidata.org/entity/>") {
		t.Errorf("direct query lacks prefix:\n%s", q)
	}
	m := mediatorQuery("Q90", "Q142")
	if !strings.Contains(m, "?m") {
		t.Errorf("mediator query lacks intermediate variable:\n%s", m)
	}
	// Queries must survive URL encoding round trips.
	if _, err := url.ParseQuery("query=" + url.QueryEscape(q)); err != nil {
		t.Errorf("direct query not encodable: %v", err)
	}
}
