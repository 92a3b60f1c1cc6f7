package utils

import (
	"math/rand"
	"time"

	"github.com/nkoroleva/medtest_platform/models"
	"gorm.io/gorm"
)

const certificateSerialLength = 10
const serialBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GenerateUniqueCertificateSerial(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, certificateSerialLength)
		for i := range b {
			b[i] = serialBytes[seededRand.Intn(len(serialBytes))]
		}
		serial := string(b)

		var certificate models.Certificate
		err := tx.Where("serial = ?", serial).First(&certificate).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return serial, nil
			}
			return "", err
		}
	}
}
