package savefile

import (
	"strings"
	"testing"
)

const sampleChecksum = "0123456789abcdef0123456789abcdef"

func TestSplit_Valid(t *testing.T) {
	content := "<Kills count=\"1\">\n<Titan id=\"A\"/>\n</Kills>\n" + sampleChecksum

	got := Split(content)
	if !got.Valid {
		t.Fatalf("expected valid split")
	}
	if got.Checksum != sampleChecksum {
		t.Fatalf("unexpected checksum: %q", got.Checksum)
	}
	if want := `<Kills count="1"><Titan id="A"/></Kills>`; got.Payload != want {
		t.Fatalf("unexpected payload: %q", got.Payload)
	}
}

func TestSplit_TrimsChecksumLine(t *testing.T) {
	got := Split("<a/>\n  \t" + sampleChecksum + " \r")
	if !got.Valid {
		t.Fatalf("expected valid split")
	}
	if got.Checksum != sampleChecksum {
		t.Fatalf("unexpected checksum: %q", got.Checksum)
	}
	if got.Payload != "<a/>" {
		t.Fatalf("unexpected payload: %q", got.Payload)
	}
}

func TestSplit_KeepsInnerCarriageReturns(t *testing.T) {
	got := Split("<a>\r\n</a>\r\n" + sampleChecksum)
	if got.Payload != "<a>\r</a>\r" {
		t.Fatalf("unexpected payload: %q", got.Payload)
	}
}

func TestSplit_ChecksumOnly(t *testing.T) {
	got := Split(sampleChecksum)
	if !got.Valid {
		t.Fatalf("expected valid split")
	}
	if got.Payload != "" {
		t.Fatalf("expected empty payload, got %q", got.Payload)
	}
}

func TestSplit_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":             "",
		"whitespace":        " \n\t",
		"short":             "<a/>\n" + sampleChecksum[:31],
		"long":              "<a/>\n" + sampleChecksum + "0",
		"trailing newline":  "<a/>\n" + sampleChecksum + "\n",
		"checksum not last": sampleChecksum + "\n<a/>",
		"no newline":        "<Kills count=\"1\"></Kills>",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			got := Split(content)
			if got.Valid {
				t.Fatalf("expected invalid split for %q", content)
			}
			if got.Checksum != "" || got.Payload != "" {
				t.Fatalf("expected empty fields, got %+v", got)
			}
		})
	}
}

func TestSplit_AnyThirtyTwoCharToken(t *testing.T) {
	token := strings.Repeat("z", checksumLen)
	got := Split("<a/>\n" + token)
	if !got.Valid || got.Checksum != token {
		t.Fatalf("expected non-hex token to be accepted, got %+v", got)
	}
}

func TestSplit_CountsCharactersNotBytes(t *testing.T) {
	wide := strings.Repeat("é", checksumLen)
	got := Split("<a/>\n" + wide)
	if !got.Valid || got.Checksum != wide || got.Payload != "<a/>" {
		t.Fatalf("expected 32 multibyte characters to be accepted, got %+v", got)
	}

	// 32 bytes but only 16 characters
	half := strings.Repeat("é", checksumLen/2)
	if got := Split("<a/>\n" + half); got.Valid || got.Checksum != "" || got.Payload != "" {
		t.Fatalf("expected 16-character line to be rejected, got %+v", got)
	}
}
