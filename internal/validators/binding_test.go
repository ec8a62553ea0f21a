package validators

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/go-playground/validator/v10"
)

type statusForm struct {
	User *string `validate:"omitempty,user_status"`
	Menu string  `validate:"omitempty,menu_status"`
}

func TestStatusValidators(t *testing.T) {
	c := qt.New(t)

	v := validator.New()
	c.Assert(RegisterOn(v), qt.IsNil)

	str := func(s string) *string { return &s }

	tests := []struct {
		name string
		form statusForm
		ok   bool
	}{
		{"empty", statusForm{}, true},
		{"active", statusForm{User: str("active")}, true},
		{"suspended", statusForm{User: str("suspended")}, true},
		{"unknown user status", statusForm{User: str("frozen")}, false},
		{"upper case user status", statusForm{User: str("Active")}, false},
		{"in stock", statusForm{Menu: "In Stock"}, true},
		{"out of stock", statusForm{Menu: "Out of Stock"}, true},
		{"lower case menu status", statusForm{Menu: "in stock"}, false},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			err := v.Struct(tt.form)
			if tt.ok {
				c.Assert(err, qt.IsNil)
			} else {
				c.Assert(err, qt.Not(qt.IsNil))
			}
		})
	}
}

type fakeResolver struct {
	mx      map[string][]*net.MX
	ips     map[string][]net.IPAddr
	block   bool
	lookups []string
}

func (r *fakeResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	r.lookups = append(r.lookups, "mx:"+name)
	if r.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if mx, ok := r.mx[name]; ok {
		return mx, nil
	}
	return nil, errors.New("no such host")
}

func (r *fakeResolver) LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error) {
	r.lookups = append(r.lookups, "ip:"+host)
	if ips, ok := r.ips[host]; ok {
		return ips, nil
	}
	return nil, errors.New("no such host")
}

func TestEmailDomainChecker(t *testing.T) {
	res := &fakeResolver{
		mx:  map[string][]*net.MX{"mail.test": {{Host: "mx.mail.test.", Pref: 10}}},
		ips: map[string][]net.IPAddr{"web.test": {{IP: net.IPv4(10, 0, 0, 1)}}},
	}
	check := NewEmailDomainCheckerWith(res, time.Second)

	tests := []struct {
		email string
		want  bool
	}{
		{"budi@mail.test", true},
		{"budi@web.test", true},
		{"budi@nowhere.test", false},
		{"no-at-sign", false},
		{"trailing@", false},
		{"@mail.test", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			qt.New(t).Assert(check.Valid(context.Background(), tt.email), qt.Equals, tt.want)
		})
	}
}

func TestEmailDomainChecker_MalformedSkipsLookups(t *testing.T) {
	c := qt.New(t)
	res := &fakeResolver{}

	c.Assert(NewEmailDomainCheckerWith(res, time.Second).Valid(context.Background(), "trailing@"), qt.IsFalse)
	c.Assert(res.lookups, qt.HasLen, 0)
}

func TestEmailDomainChecker_Timeout(t *testing.T) {
	c := qt.New(t)
	res := &fakeResolver{block: true}

	start := time.Now()
	ok := NewEmailDomainCheckerWith(res, 20*time.Millisecond).Valid(context.Background(), "budi@slow.test")

	c.Assert(ok, qt.IsFalse)
	c.Assert(time.Since(start) < time.Second, qt.IsTrue)
	c.Assert(res.lookups, qt.DeepEquals, []string{"mx:slow.test"})
}
