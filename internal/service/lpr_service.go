package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"go.uber.org/zap"
)

// TextDetector is the Rekognition call used for plate recognition.
type TextDetector interface {
	DetectText(ctx context.Context, params *rekognition.DetectTextInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectTextOutput, error)
}

// Malaysian registration plates: one to three prefix letters, up to four
// digits and an optional suffix letter, e.g. "WXY 1234" or "PKA 88 A".
var platePattern = regexp.MustCompile(`^[A-Z]{1,3}[0-9]{1,4}[A-Z]?$`)

type LPRService struct {
	detector TextDetector
	log      *zap.SugaredLogger
}

func NewLPRService(detector TextDetector, log *zap.SugaredLogger) *LPRService {
	return &LPRService{detector: detector, log: log}
}

// RecognizePlate returns the plate-shaped text with the highest confidence,
// normalized to upper case without spaces.
func (s *LPRService) RecognizePlate(ctx context.Context, image []byte) (string, float32, error) {
	if s.detector == nil {
		return "", 0, fmt.Errorf("LPRService.RecognizePlate: Rekognition client is not configured")
	}

	result, err := s.detector.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: image},
	})
	if err != nil {
		return "", 0, fmt.Errorf("LPRService.RecognizePlate: %w", err)
	}

	var best string
	var bestConfidence float32
	var seen []string
	for _, det := range result.TextDetections {
		if det.DetectedText == nil || det.Confidence == nil {
			continue
		}
		if det.Type != types.TextTypesLine && det.Type != types.TextTypesWord {
			continue
		}
		candidate := normalizePlate(strings.ReplaceAll(*det.DetectedText, "-", ""))
		seen = append(seen, candidate)
		if platePattern.MatchString(candidate) && *det.Confidence > bestConfidence {
			best = candidate
			bestConfidence = *det.Confidence
		}
	}

	if best == "" {
		s.log.Debugw("no plate candidate in image", "detections", seen)
		return "", 0, ErrPlateNotRecognized
	}
	s.log.Infow("plate recognised", "plate", best, "confidence", bestConfidence)
	return best, bestConfidence, nil
}
