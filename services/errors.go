package services

import "errors"

// Domain errors surfaced by the topic and participant services. Handlers map
// these onto the HTTP error taxonomy; anything else is an internal failure.
var (
	ErrTopicNotFound       = errors.New("topic not found")
	ErrTopicNotInactive    = errors.New("topic is not inactive")
	ErrTopicNotActive      = errors.New("topic is not active")
	ErrBeforeStartDate     = errors.New("cannot start the topic before the start date")
	ErrVacanciesNotFilled  = errors.New("accepted participants must equal the total vacancies before starting the topic")
	ErrBeforeEndDate       = errors.New("cannot complete the topic before the end date")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrAlreadyApplied      = errors.New("already applied for this topic")
	ErrOverCapacity        = errors.New("accepting this participant would exceed the topic's total vacancies")
	ErrInvalidDecision     = errors.New("decision status must be accepted or rejected")
)
