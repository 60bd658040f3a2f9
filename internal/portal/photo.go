package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"schoolbell/internal/model"
	"schoolbell/internal/queue"
)

// PhotoMessageType tags photo upload jobs on the queue.
const PhotoMessageType = "attendance-photo"

// PhotoJob asks the worker to upload the selfie taken with a mark.
type PhotoJob struct {
	AttendanceID string `json:"attendance_id"`
	Data         string `json:"data"`
}

// Uploader stores an image given as a data URL and returns its public URL.
type Uploader interface {
	UploadDataURL(ctx context.Context, data, publicID string) (string, error)
}

func (s *Service) enqueuePhoto(ctx context.Context, attendanceID, data string) error {
	body, err := json.Marshal(PhotoJob{AttendanceID: attendanceID, Data: data})
	if err != nil {
		return fmt.Errorf("encode photo job: %w", err)
	}
	if err := s.opts.Photos.Publish(ctx, queue.Message{Type: PhotoMessageType, Body: body}); err != nil {
		return fmt.Errorf("queue photo for %s: %w", attendanceID, err)
	}
	return nil
}

// DecodePhotoJob reads a queue message published by MarkAttendance.
func DecodePhotoJob(msg queue.Message) (PhotoJob, error) {
	var job PhotoJob
	if msg.Type != PhotoMessageType {
		return job, fmt.Errorf("unexpected message type %q", msg.Type)
	}
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		return job, fmt.Errorf("decode photo job: %w", err)
	}
	if job.AttendanceID == "" || job.Data == "" {
		return job, fmt.Errorf("photo job is incomplete")
	}
	return job, nil
}

// AttachPhoto uploads the photo of job and records its URL on the attendance
// row. The mark itself was stored before the upload, so a failed upload
// leaves a mark without a photo.
func (s *Service) AttachPhoto(ctx context.Context, up Uploader, job PhotoJob) (model.AttendanceRecord, error) {
	url, err := up.UploadDataURL(ctx, job.Data, job.AttendanceID)
	if err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("upload photo for %s: %w", job.AttendanceID, err)
	}
	return s.store.Attendance.SetPhoto(ctx, job.AttendanceID, url)
}

// ProcessPhotos consumes q until ctx is done, uploading every photo job and
// attaching the result. Failed jobs are logged and dropped.
func (s *Service) ProcessPhotos(ctx context.Context, q queue.Queue, up Uploader) error {
	msgs, err := q.Consume(ctx)
	if err != nil {
		return fmt.Errorf("consume photo jobs: %w", err)
	}
	for msg := range msgs {
		job, err := DecodePhotoJob(msg)
		if err != nil {
			log.Printf("photo worker: skipping message: %v", err)
			continue
		}
		rec, err := s.AttachPhoto(ctx, up, job)
		if err != nil {
			log.Printf("photo worker: %v", err)
			continue
		}
		log.Printf("photo worker: attendance %s photo stored at %s", rec.ID, rec.PhotoRef)
	}
	return nil
}
