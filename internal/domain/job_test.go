package domain

import (
	"testing"

	"github.com/dmaxwell/rasterfx/internal/raster"
)

func TestCreateJobRequestValidate(t *testing.T) {
	valid := CreateJobRequest{
		SourceType: SourceTypeS3Presigned,
		Effect:     "grayscale",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got error: %v", err)
	}

	invalid := CreateJobRequest{}
	if err := invalid.Validate(); err == nil {
		t.Fatal("expected validation error for empty request")
	}

	missingEffect := CreateJobRequest{SourceType: SourceTypeS3Presigned}
	if err := missingEffect.Validate(); err == nil {
		t.Fatal("expected validation error for missing effect")
	}

	missingObjectKey := CreateJobRequest{
		SourceType: SourceTypeLocalFile,
		Effect:     "blur",
	}
	if err := missingObjectKey.Validate(); err == nil {
		t.Fatal("expected validation error for local_file object_key")
	}

	unsupportedSourceType := CreateJobRequest{
		SourceType: "http_url",
		Effect:     "blur",
	}
	if err := unsupportedSourceType.Validate(); err == nil {
		t.Fatal("expected validation error for unsupported source_type")
	}
}

func TestCreateJobRequestValidateInline(t *testing.T) {
	missingImage := CreateJobRequest{
		SourceType: SourceTypeInline,
		Effect:     "invert",
	}
	if err := missingImage.Validate(); err == nil {
		t.Fatal("expected validation error for inline request without image")
	}

	malformed := CreateJobRequest{
		SourceType: SourceTypeInline,
		Effect:     "invert",
		Image:      &raster.Buffer{Width: 2, Height: 2, Pix: []byte{1, 2, 3}},
	}
	if err := malformed.Validate(); err == nil {
		t.Fatal("expected validation error for malformed inline image")
	}

	img, err := raster.NewBuffer(2, 2)
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}
	inline := CreateJobRequest{
		SourceType: SourceTypeInline,
		Effect:     "invert",
		Image:      img,
	}
	if err := inline.Validate(); err != nil {
		t.Fatalf("expected valid inline request, got error: %v", err)
	}
}

func TestEffectOutcomeFailed(t *testing.T) {
	if (EffectOutcome{ID: "a"}).Failed() {
		t.Fatal("outcome without error should not report failed")
	}
	if !(EffectOutcome{ID: "a", Err: "unknown effect"}).Failed() {
		t.Fatal("outcome with error should report failed")
	}
}
