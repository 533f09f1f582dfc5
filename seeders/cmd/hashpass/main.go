// Печатает bcrypt-хеш для ADMIN_PASSWORD_HASH.
package main

import (
	"flag"
	"fmt"
	"log"

	"os-tracker/pkg/utils"
)

func main() {
	password := flag.String("password", "", "Пароль администратора")
	flag.Parse()

	if *password == "" {
		log.Fatal("Укажите -password")
	}

	hash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("Ошибка при генерации хеша: %v", err)
	}
	fmt.Println(hash)
}
