package logging

import (
	"errors"
	"testing"
)

func TestFieldHelpers(t *testing.T) {
	if attr := Service("webhook"); attr.Key != FieldService || attr.Value.String() != "webhook" {
		t.Errorf("Service() = %v", attr)
	}
	if attr := DeviceID("d1"); attr.Key != FieldDeviceID || attr.Value.String() != "d1" {
		t.Errorf("DeviceID() = %v", attr)
	}
	if attr := DocumentID("doc-1"); attr.Key != FieldDocumentID || attr.Value.String() != "doc-1" {
		t.Errorf("DocumentID() = %v", attr)
	}
	if attr := Status(200); attr.Key != FieldStatus || attr.Value.Int64() != 200 {
		t.Errorf("Status() = %v", attr)
	}
	if attr := Error(errors.New("boom")); attr.Key != FieldError || attr.Value.String() != "boom" {
		t.Errorf("Error() = %v", attr)
	}
}
