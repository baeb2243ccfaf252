package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/lankalotto/ticket-validator/internal/metrics"
	"github.com/lankalotto/ticket-validator/internal/models"
	"github.com/lankalotto/ticket-validator/pkg/nlbresults"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrEmptyImage is returned when no image bytes were submitted
	ErrEmptyImage = errors.New("no image provided")
	// ErrUnsupportedImage is returned for anything but JPEG or PNG
	ErrUnsupportedImage = errors.New("unsupported image format, use jpg, jpeg or png")
	// ErrResultNotFound is returned when a verdict is missing or expired
	ErrResultNotFound = errors.New("Result not found or has expired")
)

// DefaultMaxConcurrent bounds concurrent pipeline runs when unset
const DefaultMaxConcurrent = 8

var allowedImageTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// TicketServiceImpl implements TicketService
type TicketServiceImpl struct {
	decoder   *ImageDecoder
	extractor Extractor
	results   WinningNumberSource
	prizes    *PrizeEngine
	cache     *ResultCache
	sem       *semaphore.Weighted
}

// NewTicketService creates a new TicketServiceImpl
func NewTicketService(
	decoder *ImageDecoder,
	extractor Extractor,
	results WinningNumberSource,
	prizes *PrizeEngine,
	cache *ResultCache,
	maxConcurrent int64,
) *TicketServiceImpl {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &TicketServiceImpl{
		decoder:   decoder,
		extractor: extractor,
		results:   results,
		prizes:    prizes,
		cache:     cache,
		sem:       semaphore.NewWeighted(maxConcurrent),
	}
}

var _ TicketService = (*TicketServiceImpl)(nil)

// Submit checks the upload, runs the pipeline and caches the verdict. The
// returned id is the only way to read the verdict back.
func (s *TicketServiceImpl) Submit(ctx context.Context, image []byte, filename string) (string, error) {
	ext, err := checkImage(image, filename)
	if err != nil {
		return "", err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("waiting for a pipeline slot: %w", err)
	}
	defer s.sem.Release(1)

	id := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
	logState(id, models.StateSubmitted)

	verdict := s.run(ctx, id, image)
	s.cache.Store(id, verdict)
	return id, nil
}

// Process runs the pipeline without caching. It does not take a pipeline slot.
func (s *TicketServiceImpl) Process(ctx context.Context, image []byte) models.Verdict {
	return s.run(ctx, "", image)
}

// Result returns the cached verdict for id.
func (s *TicketServiceImpl) Result(id string) (models.Verdict, error) {
	verdict, ok := s.cache.Get(id)
	if !ok {
		return models.Verdict{}, ErrResultNotFound
	}
	return verdict, nil
}

// checkImage returns the normalised extension of an acceptable upload.
func checkImage(image []byte, filename string) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := allowedImageTypes[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, filename)
	}
	detected := mimetype.Detect(image)
	if !detected.Is("image/jpeg") && !detected.Is("image/png") {
		return "", fmt.Errorf("%w: content is %s", ErrUnsupportedImage, detected.String())
	}
	return ext, nil
}

func logState(id string, state models.SubmissionState) {
	slog.Info("Ticket state changed", "id", id, "state", state)
}

// run executes decode, parse, validate, lookup and scoring in order. Every
// failure after the input checks ends up as a field of the verdict.
func (s *TicketServiceImpl) run(ctx context.Context, id string, image []byte) models.Verdict {
	logState(id, models.StateDecoding)
	payload, err := s.decoder.Decode(ctx, image)
	if err != nil {
		slog.Error("QR payload unavailable", "id", id, "error", err)
		metrics.RecordTicket(string(models.ValidationInvalid))
		return models.UnprocessableVerdict()
	}

	logState(id, models.StateParsing)
	details, err := ParseLotteryDetails(payload.Text)
	if err != nil {
		slog.Warn("Could not parse QR payload", "id", id, "origin", payload.Origin, "error", err)
		metrics.RecordTicket(string(models.ValidationInvalid))
		return models.UnprocessableVerdict()
	}

	face := s.faceNumbers(ctx, id, image, details.LotteryName)

	logState(id, models.StateValidating)
	validation := ValidateTicket(&details, face, payload.Origin)
	slog.Info("Ticket validated", "id", id, "status", validation.Status, "detail", validation.Message)

	verdict := models.Verdict{
		LotteryName:    strings.ToUpper(details.LotteryName),
		DrawDate:       formatDrawDate(details.DrawDate),
		Validation:     validation.Status,
		LotteryNumbers: details.Combo(),
		LotteryResults: models.NoWinningData,
		WinningPrice:   models.NoPrizeWon,
	}

	switch {
	case !validation.Valid():
		verdict.LotteryResults = models.WinningCheckSkipped
	case details.DrawNo != "":
		verdict.LotteryResults, verdict.WinningPrice = s.score(ctx, id, details)
	}

	metrics.RecordTicket(string(verdict.Validation))
	return verdict
}

// faceNumbers reads the combo printed on the ticket face. Failures are
// rendered as text so validation reports them.
func (s *TicketServiceImpl) faceNumbers(ctx context.Context, id string, image []byte, lotteryName string) string {
	text, err := s.extractor.Extract(ctx, image, FaceNumbersPrompt(lotteryName))
	if err != nil {
		metrics.RecordExtractionFailure()
		slog.Error("Face number extraction failed", "id", id, "error", err)
		return ErrFaceNumbersNotFound.Error() + "."
	}
	combo, err := ParseFaceCombo(text)
	if err != nil {
		slog.Warn("Could not parse face numbers", "id", id, "error", err)
		return ErrFaceNumbersNotFound.Error() + "."
	}
	return combo.String()
}

// score looks up the draw and determines the prize, returning the
// lotteryResults and winningPrice fields.
func (s *TicketServiceImpl) score(ctx context.Context, id string, details models.LotteryDetails) (string, string) {
	logState(id, models.StateFetchingWinner)
	winning, err := s.results.Fetch(ctx, details.LotteryName, details.DrawNo)
	if err != nil {
		slog.Warn("Winning numbers unavailable", "id", id, "lottery", details.LotteryName, "draw", details.DrawNo, "error", err)
		if errors.Is(err, nlbresults.ErrResultNotFound) || errors.Is(err, nlbresults.ErrWinningDetailsNotFound) {
			metrics.RecordWinningLookup("not_found")
			return err.Error(), models.NoPrizeWon
		}
		metrics.RecordWinningLookup("error")
		return "Error fetching winning numbers: " + err.Error(), models.NoPrizeWon
	}
	metrics.RecordWinningLookup("found")

	logState(id, models.StateScoring)
	results, err := s.prizes.Determine(ctx, details.LotteryName, []models.Ticket{details.Ticket()}, winning)
	if err != nil {
		slog.Error("Prize determination failed", "id", id, "error", err)
		return winning.String(), "Error: " + err.Error()
	}
	if len(results) == 0 {
		return winning.String(), models.NoPrizeWon
	}
	return winning.String(), results[0].Prize
}
