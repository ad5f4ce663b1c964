package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"homeclean-be/internal/dto"
	"homeclean-be/pkg/lifecycle"
	"homeclean-be/pkg/matching"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// matchingOfferService carries offer requests over the in-process bus so
// creation and rejection return immediately and candidate fan-out happens
// asynchronously, one message per reservation at a time.
type matchingOfferService struct {
	publisher IPublisherService
}

func NewMatchingOfferService(publisher IPublisherService) OfferEnqueuer {
	return &matchingOfferService{publisher: publisher}
}

func (s *matchingOfferService) EnqueueOffer(ctx context.Context, reservationId uuid.UUID) error {
	payload, err := json.Marshal(dto.OfferMatchMessage{ReservationId: reservationId})
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, payload)
}

type IMatchingConsumerService interface {
	Consume(ctx context.Context) error
}

type matchingConsumerService struct {
	pubSub             *gochannel.GoChannel
	topicName          string
	reservationService IReservationService
}

func NewMatchingConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	reservationService IReservationService,
) IMatchingConsumerService {
	return &matchingConsumerService{
		pubSub:             pubSub,
		topicName:          topicName,
		reservationService: reservationService,
	}
}

func (cs *matchingConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *matchingConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.OfferMatchMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal offer message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	err := cs.reservationService.OfferMatch(ctx, payload.ReservationId)
	if err != nil {
		if errors.Is(err, matching.ErrCandidatesExhausted) {
			// Not retriable: no candidates are left, reservation stays WAITING.
			log.Printf("[INFO] Candidates exhausted for reservation %s", payload.ReservationId)
			msg.Ack()
			return
		}
		if lifecycle.CodeOf(err) != "" {
			// A lifecycle rule blocked the offer (wrong state, open offer
			// already out). Retrying cannot change the verdict.
			log.Printf("[WARN] Offer rejected for reservation %s: %v", payload.ReservationId, err)
			msg.Ack()
			return
		}
		log.Printf("[ERROR] Failed to offer reservation %s: %v", payload.ReservationId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
