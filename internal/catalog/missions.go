package catalog

import "brinleneuro/internal/models"

// RoundsPerMission is how many rounds a NeuroJogo mission lasts.
const RoundsPerMission = 6

var missions = []models.Mission{
	{
		ID: "criativo-cores", Mode: models.ModeCriativo, Title: "Mundo das Cores",
		Description: "Descubra as cores escondidas nas palavras", Difficulty: 1,
		RoundTypes: []models.RoundType{models.RoundContext, models.RoundSensory, models.RoundStory},
		Reward:     models.Reward{Badge: "🎨 Pintor de Ideias", Stars: 3},
		Words: []models.WordCard{
			{Word: "Sol", Emoji: "☀️", Hint: "Ele brilha no céu durante o dia", Sentence: "O sol deixa o dia amarelo.", SensoryPrompt: "Sinta o calor quentinho no rosto. O que brilha no céu?"},
			{Word: "Mar", Emoji: "🌊", Hint: "Tem ondas e é muito grande", Sentence: "O mar é azul e cheio de peixes.", SensoryPrompt: "Escute as ondas chegando na areia. Onde você está?"},
			{Word: "Flor", Emoji: "🌸", Hint: "Nasce no jardim e tem perfume", Sentence: "A flor cor-de-rosa abriu hoje.", SensoryPrompt: "Sinta um perfume doce no jardim. O que é?"},
			{Word: "Arco-íris", Emoji: "🌈", Hint: "Aparece depois da chuva com sete cores", Sentence: "O arco-íris pintou o céu.", SensoryPrompt: "Depois da chuva, o céu ganhou cores. O que apareceu?"},
			{Word: "Folha", Emoji: "🍃", Hint: "É verde e cai das árvores", Sentence: "A folha verde dançou com o vento.", SensoryPrompt: "Escute o barulhinho das árvores balançando. O que cai delas?"},
			{Word: "Morango", Emoji: "🍓", Hint: "É vermelho e docinho", Sentence: "O morango vermelho é gostoso.", SensoryPrompt: "Imagine um sabor doce e vermelho. Que fruta é?"},
		},
	},
	{
		ID: "criativo-inventores", Mode: models.ModeCriativo, Title: "Pequenos Inventores",
		Description: "Crie histórias com objetos mágicos", Difficulty: 2,
		RoundTypes: []models.RoundType{models.RoundStory, models.RoundContext},
		Reward:     models.Reward{Badge: "🚀 Inventor Criativo", Stars: 3},
		Words: []models.WordCard{
			{Word: "Foguete", Emoji: "🚀", Hint: "Voa até as estrelas", Sentence: "O foguete subiu até a lua.", SensoryPrompt: "Escute o barulho forte decolando. O que vai para o espaço?"},
			{Word: "Robô", Emoji: "🤖", Hint: "É uma máquina que ajuda as pessoas", Sentence: "O robô arrumou o quarto.", SensoryPrompt: "Escute os bipes e os passos de metal. Quem está chegando?"},
			{Word: "Castelo", Emoji: "🏰", Hint: "Tem torres e um rei mora nele", Sentence: "O castelo tem uma torre alta.", SensoryPrompt: "Imagine torres altas e uma ponte grande. Onde você está?"},
			{Word: "Dragão", Emoji: "🐉", Hint: "Um bicho mágico que solta fogo", Sentence: "O dragão era amigo das crianças.", SensoryPrompt: "Sinta um vento quente de asas enormes. Quem voa assim?"},
			{Word: "Varinha", Emoji: "🪄", Hint: "Os mágicos usam para fazer mágica", Sentence: "A varinha fez uma estrela aparecer.", SensoryPrompt: "Um brilho saiu da ponta e fez plim! O que é?"},
			{Word: "Mapa", Emoji: "🗺️", Hint: "Mostra o caminho do tesouro", Sentence: "O mapa mostrou onde estava o tesouro.", SensoryPrompt: "Escute o papel se abrindo com um caminho desenhado. O que é?"},
		},
	},
	{
		ID: "calma-natureza", Mode: models.ModeCalma, Title: "Jardim Tranquilo",
		Description: "Respire e encontre as palavras da natureza", Difficulty: 1,
		RoundTypes: []models.RoundType{models.RoundSensory, models.RoundContext},
		Reward:     models.Reward{Badge: "🌙 Mestre da Calma", Stars: 3},
		Words: []models.WordCard{
			{Word: "Nuvem", Emoji: "☁️", Hint: "É branquinha e fica no céu", Sentence: "A nuvem parece um algodão.", SensoryPrompt: "Imagine algo fofinho flutuando no céu. O que é?"},
			{Word: "Chuva", Emoji: "🌧️", Hint: "Cai do céu e molha tudo", Sentence: "A chuva caiu devagarinho.", SensoryPrompt: "Escute pingos caindo na janela. O que está acontecendo?"},
			{Word: "Lua", Emoji: "🌙", Hint: "Aparece no céu à noite", Sentence: "A lua ilumina a noite.", SensoryPrompt: "Está escuro e uma luz suave aparece no céu. O que é?"},
			{Word: "Árvore", Emoji: "🌳", Hint: "Tem tronco, galhos e folhas", Sentence: "A árvore faz uma sombra fresquinha.", SensoryPrompt: "Sinta a sombra fresca de galhos bem altos. Onde você está?"},
			{Word: "Borboleta", Emoji: "🦋", Hint: "Tem asas coloridas e voa leve", Sentence: "A borboleta pousou na flor.", SensoryPrompt: "Algo leve e colorido passou voando pertinho. Quem é?"},
			{Word: "Lago", Emoji: "🏞️", Hint: "Tem água parada e patos nadando", Sentence: "O lago está calmo e bonito.", SensoryPrompt: "Escute os patinhos nadando na água parada. Onde eles estão?"},
		},
	},
	{
		ID: "calma-sentimentos", Mode: models.ModeCalma, Title: "Coração Sereno",
		Description: "Reconheça sentimentos com calma", Difficulty: 2,
		RoundTypes: []models.RoundType{models.RoundContext, models.RoundSensory},
		Reward:     models.Reward{Badge: "💗 Coração Tranquilo", Stars: 3},
		Words: []models.WordCard{
			{Word: "Abraço", Emoji: "🤗", Hint: "Damos com os braços em quem gostamos", Sentence: "O abraço da vovó é quentinho.", SensoryPrompt: "Sinta braços apertando você com carinho. O que é?"},
			{Word: "Sorriso", Emoji: "😊", Hint: "Aparece no rosto quando estamos felizes", Sentence: "O sorriso dela iluminou a sala.", SensoryPrompt: "Seu rosto ficou alegre e a boca abriu. O que apareceu?"},
			{Word: "Sono", Emoji: "😴", Hint: "Sentimos quando é hora de dormir", Sentence: "O sono chegou depois da história.", SensoryPrompt: "Os olhos ficam pesados e a cama chama. O que é?"},
			{Word: "Carinho", Emoji: "💞", Hint: "Um toque gostoso de quem nos ama", Sentence: "O gatinho gosta de carinho.", SensoryPrompt: "Uma mão macia passa no seu cabelo. O que você sente?"},
			{Word: "Amigo", Emoji: "🧒", Hint: "Alguém que brinca e cuida de você", Sentence: "Meu amigo dividiu o lanche.", SensoryPrompt: "Escute alguém chamando você para brincar. Quem é?"},
			{Word: "Silêncio", Emoji: "🤫", Hint: "Quando ninguém faz barulho", Sentence: "O silêncio ajuda a descansar.", SensoryPrompt: "Escute... nenhum barulho. Como se chama isso?"},
		},
	},
	{
		ID: "foco-memoria", Mode: models.ModeFoco, Title: "Trilha da Memória",
		Description: "Lembre a ordem das palavras", Difficulty: 2,
		RoundTypes: []models.RoundType{models.RoundSequence, models.RoundContext},
		Reward:     models.Reward{Badge: "🧠 Super Memória", Stars: 3},
		Words: []models.WordCard{
			{Word: "Livro", Emoji: "📖", Hint: "Tem páginas e histórias", Sentence: "O livro conta a história de um leão.", SensoryPrompt: "Escute as páginas virando. O que você está lendo?"},
			{Word: "Lápis", Emoji: "✏️", Hint: "Usamos para escrever e desenhar", Sentence: "O lápis escreveu meu nome.", SensoryPrompt: "Sinta a ponta riscando o papel. O que você segura?"},
			{Word: "Relógio", Emoji: "⏰", Hint: "Mostra as horas", Sentence: "O relógio faz tique-taque.", SensoryPrompt: "Escute tique-taque, tique-taque. O que é?"},
			{Word: "Escola", Emoji: "🏫", Hint: "Lugar onde aprendemos", Sentence: "Na escola eu aprendo a ler.", SensoryPrompt: "Escute o sinal tocando e crianças chegando. Onde você está?"},
			{Word: "Mochila", Emoji: "🎒", Hint: "Levamos nas costas com o material", Sentence: "A mochila está cheia de cadernos.", SensoryPrompt: "Sinta algo nas costas com cadernos dentro. O que é?"},
			{Word: "Caderno", Emoji: "📓", Hint: "Tem folhas para escrever", Sentence: "Desenhei uma casa no caderno.", SensoryPrompt: "Escute folhas em branco esperando suas letras. O que é?"},
		},
	},
	{
		ID: "foco-detetive", Mode: models.ModeFoco, Title: "Detetive Atento",
		Description: "Observe e encontre cada pista", Difficulty: 3,
		RoundTypes: []models.RoundType{models.RoundContext, models.RoundSequence, models.RoundSensory},
		Reward:     models.Reward{Badge: "🔍 Detetive Brilhante", Stars: 3},
		Words: []models.WordCard{
			{Word: "Lupa", Emoji: "🔍", Hint: "Deixa as coisas pequenas maiores", Sentence: "A lupa mostrou a formiga.", SensoryPrompt: "Tudo ficou grandão quando você olhou. O que você usou?"},
			{Word: "Pegada", Emoji: "👣", Hint: "Marca que o pé deixa no chão", Sentence: "A pegada estava na areia.", SensoryPrompt: "Você vê marcas de pés na lama. O que são?"},
			{Word: "Chave", Emoji: "🔑", Hint: "Abre portas e cadeados", Sentence: "A chave abriu o baú.", SensoryPrompt: "Escute um clique abrindo a porta. O que girou?"},
			{Word: "Segredo", Emoji: "🤐", Hint: "Algo que só poucos sabem", Sentence: "Contei um segredo ao meu irmão.", SensoryPrompt: "Alguém falou baixinho no seu ouvido. O que contou?"},
			{Word: "Pista", Emoji: "🧩", Hint: "Ajuda a resolver um mistério", Sentence: "A pista estava embaixo da mesa.", SensoryPrompt: "Um detalhe escondido ajuda a resolver o mistério. O que é?"},
			{Word: "Lanterna", Emoji: "🔦", Hint: "Ilumina no escuro", Sentence: "A lanterna clareou o caminho.", SensoryPrompt: "Está escuro e uma luz aparece na sua mão. O que é?"},
		},
	},
	{
		ID: "energia-esportes", Mode: models.ModeEnergia, Title: "Corrida Rápida",
		Description: "Responda antes do tempo acabar", Difficulty: 2,
		RoundTypes: []models.RoundType{models.RoundSpeed, models.RoundContext},
		Reward:     models.Reward{Badge: "⚡ Raio Veloz", Stars: 3},
		Words: []models.WordCard{
			{Word: "Bola", Emoji: "⚽", Hint: "É redonda e chutamos no gol", Sentence: "A bola entrou no gol.", SensoryPrompt: "Escute o chute e a torcida gritando. O que voou?"},
			{Word: "Bicicleta", Emoji: "🚲", Hint: "Tem duas rodas e pedais", Sentence: "Andei de bicicleta no parque.", SensoryPrompt: "Sinta o vento enquanto pedala. Em que você está?"},
			{Word: "Pular", Emoji: "🦘", Hint: "O canguru faz isso", Sentence: "Vamos pular corda juntos.", SensoryPrompt: "Seus pés saem do chão e voltam. O que você fez?"},
			{Word: "Nadar", Emoji: "🏊", Hint: "Fazemos isso na piscina", Sentence: "Eu gosto de nadar no verão.", SensoryPrompt: "Sinta a água fresquinha enquanto mexe os braços. O que faz?"},
			{Word: "Correr", Emoji: "🏃", Hint: "Ir bem rápido com as pernas", Sentence: "Corri até a linha de chegada.", SensoryPrompt: "O coração bate forte e as pernas voam. O que está fazendo?"},
			{Word: "Medalha", Emoji: "🥇", Hint: "Ganhamos quando vencemos", Sentence: "A medalha de ouro brilhou.", SensoryPrompt: "Algo brilhante pendurado no seu pescoço. O que ganhou?"},
		},
	},
	{
		ID: "energia-festa", Mode: models.ModeEnergia, Title: "Festa Animada",
		Description: "Muita energia para dançar e brincar", Difficulty: 3,
		RoundTypes: []models.RoundType{models.RoundSpeed, models.RoundStory, models.RoundSpeed},
		Reward:     models.Reward{Badge: "🎉 Rei da Festa", Stars: 3},
		Words: []models.WordCard{
			{Word: "Tambor", Emoji: "🥁", Hint: "Batemos nele para fazer ritmo", Sentence: "O tambor fez tum-tum-tum.", SensoryPrompt: "Escute tum, tum, tum bem forte. O que toca assim?"},
			{Word: "Balão", Emoji: "🎈", Hint: "Enchemos de ar na festa", Sentence: "O balão vermelho subiu.", SensoryPrompt: "Algo leve e cheio de ar flutua no teto. O que é?"},
			{Word: "Dançar", Emoji: "💃", Hint: "Mexer o corpo com a música", Sentence: "Vamos dançar na festa.", SensoryPrompt: "A música toca e seu corpo se mexe. O que você faz?"},
			{Word: "Bolo", Emoji: "🎂", Hint: "Tem velas no aniversário", Sentence: "O bolo de chocolate é delicioso.", SensoryPrompt: "Sinta o cheirinho doce com velas acesas. O que é?"},
			{Word: "Palmas", Emoji: "👏", Hint: "Fazemos com as mãos para comemorar", Sentence: "Todos bateram palmas.", SensoryPrompt: "Escute as mãos batendo juntas. O que é isso?"},
			{Word: "Confete", Emoji: "🎊", Hint: "Papelzinho colorido que jogamos para cima", Sentence: "O confete caiu no chão.", SensoryPrompt: "Pedacinhos coloridos caem como chuva. O que são?"},
		},
	},
}

// Missions returns the missions of a mode, easiest first.
func Missions(mode models.ModeID) []models.Mission {
	var out []models.Mission
	for _, m := range missions {
		if m.Mode == mode {
			out = append(out, m)
		}
	}
	return out
}

// Mission looks a mission up by id.
func Mission(id string) (models.Mission, bool) {
	for _, m := range missions {
		if m.ID == id {
			return m, true
		}
	}
	return models.Mission{}, false
}
