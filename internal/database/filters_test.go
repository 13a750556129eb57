package database

import (
	"regexp"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestUserSearchFilterEscapesFragment(t *testing.T) {
	filter := userSearchFilter("a.b+c@x.com")

	cond, ok := filter["email"].(bson.M)
	if !ok {
		t.Fatalf("expected email condition, got %#v", filter)
	}
	if cond["$options"] != "i" {
		t.Errorf("expected case-insensitive match, got %v", cond["$options"])
	}

	pattern := regexp.MustCompile("(?i)" + cond["$regex"].(string))
	if !pattern.MatchString("USER-A.B+C@X.COM") {
		t.Error("expected literal fragment to match case-insensitively")
	}
	if pattern.MatchString("aXbbc@x.com") {
		t.Error("regex metacharacters in the fragment must be escaped")
	}
}

func TestParcelsFilter(t *testing.T) {
	if len(parcelsFilter("")) != 0 {
		t.Error("empty creator should list all parcels")
	}
	if got := parcelsFilter("a@b.com")["created_by"]; got != "a@b.com" {
		t.Errorf("unexpected created_by filter %v", got)
	}
}

func TestPaymentsFilter(t *testing.T) {
	if len(paymentsFilter("")) != 0 {
		t.Error("empty email should not filter")
	}
	if got := paymentsFilter("a@b.com")["email"]; got != "a@b.com" {
		t.Errorf("unexpected email filter %v", got)
	}
}
