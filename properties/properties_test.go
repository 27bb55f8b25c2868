package properties

import (
	"strings"
	"testing"

	"github.com/ledgerflow/walletcore/bigint"
	"github.com/ledgerflow/walletcore/walleterr"
)

func TestBindSetGetRoundTrip(t *testing.T) {
	props := New("TestTransaction")
	amount := BindAmount(props, "fee", Required, nil)

	if amount.IsSet() {
		t.Fatal("expected unset property")
	}
	if err := props.SetProperty("fee", bigint.FromInt64(100)); err != nil {
		t.Fatal(err)
	}
	got, err := amount.Get()
	if err != nil {
		t.Fatal(err)
	}
	if got.DecimalString() != "100" {
		t.Errorf("got %s, want 100", got.DecimalString())
	}
}

func TestSetAnyTypeMismatch(t *testing.T) {
	props := New("TestTransaction")
	BindString(props, "address", Required, nil)

	err := props.SetProperty("address", 42)
	if !walleterr.Is(err, walleterr.TypeMismatch) {
		t.Fatalf("expected TypeMismatch error, got %v", err)
	}
}

func TestPredicateRejection(t *testing.T) {
	props := New("TestTransaction")
	BindString(props, "address", Required, func(v string) error {
		if len(v) == 0 {
			return walleterr.New(walleterr.InvalidAddress, "test", "address must not be empty")
		}
		return nil
	})

	if err := props.SetProperty("address", ""); err == nil {
		t.Fatal("expected predicate to reject empty address")
	}
	if err := props.SetProperty("address", "1A1zP1"); err != nil {
		t.Fatal(err)
	}
}

func TestValidateReportsMissingRequired(t *testing.T) {
	props := New("TestTransaction")
	BindString(props, "source", Required, nil)
	BindString(props, "destination", Required, nil)
	BindString(props, "memo", Optional, nil)

	err := props.SetProperty("source", "abc")
	if err != nil {
		t.Fatal(err)
	}

	err = props.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(err.Error(), "destination") {
		t.Errorf("expected error to name the missing property, got: %v", err)
	}
	if strings.Contains(err.Error(), "memo") {
		t.Errorf("optional property should not be reported missing: %v", err)
	}
}

func TestReadOnlyRejectsSecondSet(t *testing.T) {
	props := New("TestTransaction")
	BindInt32(props, "version", ReadOnly, nil)

	if err := props.SetProperty("version", int32(1)); err != nil {
		t.Fatal(err)
	}
	if err := props.SetProperty("version", int32(2)); err == nil {
		t.Fatal("expected second set of a read-only property to fail")
	}
}

func TestResetProperty(t *testing.T) {
	props := New("TestTransaction")
	source := BindString(props, "source", Required, nil)

	if err := props.SetProperty("source", "abc"); err != nil {
		t.Fatal(err)
	}
	if err := props.ResetProperty("source"); err != nil {
		t.Fatal(err)
	}
	if source.IsSet() {
		t.Error("expected property to be unset after reset")
	}
}

func TestSpecificationListsAllProperties(t *testing.T) {
	props := New("TestTransaction")
	BindString(props, "source", Required, nil)
	BindAmount(props, "fee", Optional, nil)

	spec := props.Specification()
	if !strings.Contains(spec, "source: string (required)") {
		t.Errorf("spec missing source line: %s", spec)
	}
	if !strings.Contains(spec, "fee: BigInt (optional)") {
		t.Errorf("spec missing fee line: %s", spec)
	}
}

func TestUnbindRemovesProperty(t *testing.T) {
	props := New("TestTransaction")
	BindString(props, "source", Required, nil)

	if !props.Unbind("source") {
		t.Fatal("expected unbind to succeed")
	}
	if err := props.SetProperty("source", "abc"); err == nil {
		t.Fatal("expected set on unbound property to fail")
	}
}

func TestDuplicateBindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate bind")
		}
	}()
	props := New("TestTransaction")
	BindString(props, "source", Required, nil)
	BindString(props, "source", Required, nil)
}
