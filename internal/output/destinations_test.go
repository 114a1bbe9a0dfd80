package output_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/output"
)

var _ = Describe("Event destinations", func() {
	It("prints console messages prefixed with their topic", func() {
		var buf bytes.Buffer
		console := output.NewConsoleOutput(&buf)
		Expect(console.WriteMessage("hotel_reservation_events", []byte(`{"a":1}`))).To(Succeed())
		Expect(console.Close()).To(Succeed())
		Expect(buf.String()).To(Equal("[hotel_reservation_events] {\"a\":1}\n"))
	})

	It("appends newline-delimited messages to one file per topic", func() {
		dir := filepath.Join(GinkgoT().TempDir(), "events")
		fo, err := output.NewFileOutput(dir)
		Expect(err).ToNot(HaveOccurred())

		Expect(fo.WriteMessage("hotel_reservation_events", []byte(`{"n":1}`))).To(Succeed())
		Expect(fo.WriteMessage("hotel_reservation_events", []byte(`{"n":2}`))).To(Succeed())
		Expect(fo.WriteMessage("hotel_rejection_events", []byte(`{"n":3}`))).To(Succeed())
		Expect(fo.Close()).To(Succeed())

		data, err := os.ReadFile(filepath.Join(dir, "hotel_reservation_events.jsonl"))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal("{\"n\":1}\n{\"n\":2}\n"))
		Expect(filepath.Join(dir, "hotel_rejection_events.jsonl")).To(BeAnExistingFile())
	})

	It("builds the destination named by the configuration", func() {
		dest, err := output.NewEventDestination(models.EventsConfig{Output: "none"}, io.Discard, discard)
		Expect(err).ToNot(HaveOccurred())
		Expect(dest).To(BeNil())

		dest, err = output.NewEventDestination(models.EventsConfig{Output: "file", FilePath: GinkgoT().TempDir()}, io.Discard, discard)
		Expect(err).ToNot(HaveOccurred())
		Expect(dest).To(BeAssignableToTypeOf(&output.FileOutput{}))
		Expect(dest.Close()).To(Succeed())

		_, err = output.NewEventDestination(models.EventsConfig{Output: "pigeon"}, io.Discard, discard)
		Expect(err).To(HaveOccurred())
	})

	It("sends console events to the given writer instead of stdout", func() {
		var events bytes.Buffer
		dest, err := output.NewEventDestination(models.EventsConfig{Output: "console"}, &events, discard)
		Expect(err).ToNot(HaveOccurred())
		Expect(dest.WriteMessage("hotel_rejection_events", []byte(`{"reason":"no_room"}`))).To(Succeed())
		Expect(dest.Close()).To(Succeed())
		Expect(events.String()).To(Equal("[hotel_rejection_events] {\"reason\":\"no_room\"}\n"))
	})
})
