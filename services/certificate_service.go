package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	config "github.com/nkoroleva/medtest_platform/configs"
	"github.com/nkoroleva/medtest_platform/models"
	"github.com/nkoroleva/medtest_platform/utils"
	"gorm.io/gorm"
)

// CheckAndGenerateCertificate issues a PDF certificate for a passed attempt.
// At most one certificate per (worker, test); best effort, failures are
// logged and never surface to the grading flow.
func CheckAndGenerateCertificate(db *gorm.DB, result models.TestResult) {
	if !result.Passed || !result.IsCompleted() {
		return
	}

	var existing models.Certificate
	if err := db.Where("worker_id = ? AND test_id = ?", result.WorkerID, result.TestID).
		First(&existing).Error; err == nil {
		return
	}

	var worker models.MedicalWorker
	if err := db.First(&worker, "id = ?", result.WorkerID).Error; err != nil {
		log.Printf("🔥 Certificate lookup failed for worker %s: %v", result.WorkerID, err)
		return
	}
	var test models.Test
	if err := db.First(&test, "id = ?", result.TestID).Error; err != nil {
		log.Printf("🔥 Certificate lookup failed for test %s: %v", result.TestID, err)
		return
	}

	serial, err := utils.GenerateUniqueCertificateSerial(db)
	if err != nil {
		log.Printf("🔥 Failed to generate certificate serial: %v", err)
		return
	}

	htmlData, err := renderCertificateHTML(worker.FullName(), test.Title, serial, result.Percentage)
	if err != nil {
		log.Printf("🔥 Failed to render certificate HTML: %v", err)
		return
	}

	pdfBytes, err := printPDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate certificate PDF: %v", err)
		return
	}

	uploadURL, err := uploadCertificate(pdfBytes, result.WorkerID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload certificate: %v", err)
		return
	}

	certificate := models.Certificate{
		ID:             uuid.New(),
		WorkerID:       result.WorkerID,
		TestID:         result.TestID,
		Serial:         serial,
		Title:          test.Title,
		IssuedAt:       time.Now().UTC(),
		CertificateURL: uploadURL,
	}

	if err := db.Create(&certificate).Error; err != nil {
		log.Printf("🔥 Failed to create certificate record for worker %s: %v", result.WorkerID, err)
	} else {
		log.Printf("✅ Issued certificate %s for worker %s on test %q.", serial, result.WorkerID, test.Title)
	}
}

func renderCertificateHTML(workerName, testTitle, serial string, percentage float64) (string, error) {
	tmpl, err := template.ParseFiles("templates/certificate.html")
	if err != nil {
		return "", err
	}

	data := struct {
		WorkerName string
		TestTitle  string
		Serial     string
		Percentage string
		IssuedDate string
	}{
		WorkerName: workerName,
		TestTitle:  testTitle,
		Serial:     serial,
		Percentage: fmt.Sprintf("%.1f%%", percentage),
		IssuedDate: time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func printPDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadCertificate(fileBytes []byte, workerID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("certificates/%s_%s", workerID, uuid.New().String()),
		Folder:       "medtest_certificates",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
